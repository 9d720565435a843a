package services

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HasMutualLike reports whether the book owner has liked any book the acting
// user owns. It is evaluated against freshly read sets on every like, never
// cached, since either side may change between successive calls.
func HasMutualLike(ownerLiked, actorOwned []primitive.ObjectID) bool {
	if len(ownerLiked) == 0 || len(actorOwned) == 0 {
		return false
	}
	owned := make(map[primitive.ObjectID]struct{}, len(actorOwned))
	for _, id := range actorOwned {
		owned[id] = struct{}{}
	}
	for _, id := range ownerLiked {
		if _, ok := owned[id]; ok {
			return true
		}
	}
	return false
}
