package billing

import "strings"

const (
	refOrder        = "order:"
	refSubscription = "subscription:"
)

// OrderReference tags a gateway charge with the order it pays.
func OrderReference(orderID string) string {
	return refOrder + orderID
}

func SubscriptionReference(subscriptionID string) string {
	return refSubscription + subscriptionID
}

// ParseReference splits a gateway reference into order or subscription id.
// Bare ids are treated as orders.
func ParseReference(ref string) (orderID, subscriptionID string) {
	switch {
	case strings.HasPrefix(ref, refSubscription):
		return "", strings.TrimPrefix(ref, refSubscription)
	case strings.HasPrefix(ref, refOrder):
		return strings.TrimPrefix(ref, refOrder), ""
	default:
		return ref, ""
	}
}
