package database

import (
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// order lifecycle states. the studio only ever writes 'placed'; the rest
// belong to fulfillment tooling
const (
	OrderStatusPlaced   = "placed"
	OrderStatusPrinted  = "printed"
	OrderStatusShipped  = "shipped"
	OrderStatusCanceled = "canceled"
)

// Order is one placed print order line. the photos themselves live in the
// photo_items table keyed by KitID.
type Order struct {
	ID            string `json:"id"`
	KitID         string `json:"kit_id"`
	TierID        int64  `json:"tier_id"`
	TargetSize    int    `json:"target_size"`
	CustomerEmail string `json:"customer_email"`
	Consent       bool   `json:"consent"`
	Status        string `json:"status"`
	CreatedAt     int64  `json:"created_at"`
}

// InsertOrder records a finalized kit as an order row
func InsertOrder(db Querier, order Order) error {
	if order.Status == "" {
		order.Status = OrderStatusPlaced
	}
	if order.CreatedAt == 0 {
		order.CreatedAt = time.Now().Unix()
	}

	sqlStr, args, err := psql.Insert("orders").
		Columns("id", "kit_id", "tier_id", "target_size", "customer_email", "consent", "status", "created_at").
		Values(order.ID, order.KitID, order.TierID, order.TargetSize, order.CustomerEmail, order.Consent, order.Status, order.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build SQL query for InsertOrder: %w", err)
	}

	if _, err := db.Exec(sqlStr, args...); err != nil {
		return fmt.Errorf("failed to insert order %s: %w", order.ID, err)
	}
	return nil
}

var orderColumns = []string{
	"id", "kit_id", "tier_id", "target_size", "customer_email", "consent", "status", "created_at",
}

func scanOrder(scan func(...interface{}) error) (Order, error) {
	var o Order
	err := scan(&o.ID, &o.KitID, &o.TierID, &o.TargetSize, &o.CustomerEmail, &o.Consent, &o.Status, &o.CreatedAt)
	return o, err
}

// GetOrderByID retrieves one order, used by the admin re-edit flow as the
// source of a kit's initial photo items
func GetOrderByID(db Querier, id string) (Order, error) {
	sqlStr, args, err := psql.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return Order{}, fmt.Errorf("failed to build SQL query for GetOrderByID: %w", err)
	}

	order, err := scanOrder(db.QueryRow(sqlStr, args...).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return Order{}, err
		}
		return Order{}, fmt.Errorf("failed to get order %s: %w", id, err)
	}
	return order, nil
}

// ListOrders returns orders newest first, optionally filtered by status
// and/or customer email
func ListOrders(db Querier, status, customerEmail string, limit uint64) ([]Order, error) {
	builder := psql.Select(orderColumns...).
		From("orders").
		OrderBy("created_at DESC")
	if status != "" {
		builder = builder.Where(sq.Eq{"status": status})
	}
	if customerEmail != "" {
		builder = builder.Where(sq.Eq{"customer_email": customerEmail})
	}
	if limit > 0 {
		builder = builder.Limit(limit)
	}

	sqlStr, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL query for ListOrders: %w", err)
	}

	rows, err := db.Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		order, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// UpdateOrderStatus moves an order through fulfillment
func UpdateOrderStatus(db Querier, id, status string) error {
	sqlStr, args, err := psql.Update("orders").
		Set("status", status).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build SQL query for UpdateOrderStatus: %w", err)
	}

	result, err := db.Exec(sqlStr, args...)
	if err != nil {
		return fmt.Errorf("failed to update order %s status: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
