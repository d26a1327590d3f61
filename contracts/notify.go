package contracts

// CellUpdate is the post-operation view of one cell handed to a Notifier:
// enough to let a webhook subscriber reconstruct the query result spec.md
// §4.8 defines for that cell.
type CellUpdate struct {
	CellId  string
	Value   float64
	Formula string
}

// Notifier observes the Engine's update maps without participating in
// evaluation — registering a webhook never changes what a query returns,
// only whether a POST eventually fires for it.
type Notifier interface {
	SetWebhookUrl(sheetId, cellId, webhookUrl string)
	GetWebhookUrl(sheetId, cellId string) string
	Notify(sheetId string, cells []CellUpdate)
	Start()
	Close()
}
