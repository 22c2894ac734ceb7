package domain

// Collection keys as persisted by the store. Each key maps to one
// JSON-encoded array of records.
const (
	CollectionProducts  = "products"
	CollectionCart      = "cart"
	CollectionWishlist  = "wishlist"
	CollectionOrders    = "user_orders"
	CollectionAddresses = "addresses"
)

// Change bus topics. Events carry no payload; subscribers re-read the
// collection a topic announces. Addresses have no topic because nothing
// watches them live.
const (
	TopicProducts = "productsUpdated"
	TopicCart     = "cartUpdated"
	TopicWishlist = "wishlistUpdated"
	TopicOrders   = "ordersUpdated"
)

// TopicFor returns the change bus topic for a collection, or "" for
// collections without one.
func TopicFor(collection string) string {
	switch collection {
	case CollectionProducts:
		return TopicProducts
	case CollectionCart:
		return TopicCart
	case CollectionWishlist:
		return TopicWishlist
	case CollectionOrders:
		return TopicOrders
	default:
		return ""
	}
}
