package events

const (
	TopicShopping = "storefront.shopping"
)

// Partition key = product_id, so every event of one product keeps its order.
func PartitionKey(productID string) []byte { return []byte(productID) }
