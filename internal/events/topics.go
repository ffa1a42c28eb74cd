package events

const (
	TopicInventoryAdjusted = "inventory.adjusted"
	TopicRestockRequested  = "inventory.restock.requested"
	TopicCartCheckedOut    = "cart.checked_out"
)
