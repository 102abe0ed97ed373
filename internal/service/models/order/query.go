package order

// QueryOrdersModel represents filter parameters for querying orders.
// Empty fields do not constrain the query.
type QueryOrdersModel struct {
	Ids      []int64
	UserIds  []int64
	Statuses []Status
}
