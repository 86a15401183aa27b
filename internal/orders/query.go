package orders

import (
	"fmt"
	"strings"
	"time"
)

// ListFilters are the independently optional filters of the order listing.
// ActorID is always set by the use case; listings never cross the ownership
// boundary.
type ListFilters struct {
	ActorID   string
	ClientID  string
	OrderID   string
	Status    Status
	Section   string
	StartDate *time.Time
	EndDate   *time.Time
	Skip      int
	Limit     int
}

const orderColumns = `o.id, o.client_id, o.created_by, o.total, o.status, o.created_at, o.updated_at`

// buildListQuery composes the page query and the matching count query for
// the filter set. Two shapes exist on purpose: without the section filter no
// join happens and the count is a plain COUNT(*); with it, the items→products
// join can yield one row per matching line, so both the page and the count
// de-duplicate by order id.
func buildListQuery(f ListFilters) (dataSQL string, dataArgs []any, countSQL string, countArgs []any) {
	var conditions []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	conditions = append(conditions, "o.created_by = "+arg(f.ActorID))
	if f.ClientID != "" {
		conditions = append(conditions, "o.client_id = "+arg(f.ClientID))
	}
	if f.OrderID != "" {
		conditions = append(conditions, "o.id = "+arg(f.OrderID))
	}
	if f.Status != "" {
		conditions = append(conditions, "o.status = "+arg(f.Status))
	}
	if f.StartDate != nil {
		conditions = append(conditions, "o.created_at >= "+arg(*f.StartDate))
	}
	if f.EndDate != nil {
		conditions = append(conditions, "o.created_at <= "+arg(*f.EndDate))
	}

	from := "FROM orders o"
	selectList := orderColumns
	countExpr := "COUNT(*)"
	if f.Section != "" {
		from += " JOIN order_items i ON i.order_id = o.id JOIN products p ON p.id = i.product_id"
		conditions = append(conditions, "p.section = "+arg(f.Section))
		selectList = "DISTINCT " + orderColumns
		countExpr = "COUNT(DISTINCT o.id)"
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	countSQL = fmt.Sprintf("SELECT %s %s %s", countExpr, from, where)
	countArgs = args

	dataArgs = append(append([]any{}, args...), f.Skip, f.Limit)
	dataSQL = fmt.Sprintf("SELECT %s %s %s ORDER BY o.created_at DESC OFFSET $%d LIMIT $%d",
		selectList, from, where, len(args)+1, len(args)+2)

	return dataSQL, dataArgs, countSQL, countArgs
}
