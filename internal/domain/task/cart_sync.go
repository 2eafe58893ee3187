package task

// CartSyncTask marks a (product, size) cart line as out of sync with the
// backend. It carries no quantity: workers resolve the quantity from the
// live session at apply time, so duplicated or reordered deliveries all
// converge on the current cart.
type CartSyncTask struct {
	ItemID string `json:"item_id"`
	Size   string `json:"size"`
}

func (t *CartSyncTask) TaskType() string {
	return "CartSyncTask"
}

func (t *CartSyncTask) TaskValue() ([]byte, error) {
	return DefaultTaskValue(t)
}
