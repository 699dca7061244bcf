// Package authz centralizes the ownership and visibility predicates every
// controller and query must apply. Each rule exists exactly once, both as a
// plain predicate over loaded documents and as the equivalent match clause
// for aggregation pipelines, so point reads and list reads cannot drift.
package authz

import (
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/vidtube/backend/internal/models"
)

// CanMutate reports whether callerID may modify a resource owned by
// ownerID. Identifiers compare as plain strings; an empty caller never
// owns anything.
func CanMutate(ownerID, callerID string) bool {
	if ownerID == "" || callerID == "" {
		return false
	}
	return ownerID == callerID
}

// IsVisible reports whether callerID may read the video: published videos
// are visible to everyone, unpublished ones only to their owner.
func IsVisible(video models.Video, callerID string) bool {
	if video.IsPublished {
		return true
	}
	return CanMutate(video.Owner, callerID)
}

// VisibilityFilter is IsVisible expressed as a match clause for video
// collection queries and joins.
func VisibilityFilter(callerID string) bson.D {
	return bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "isPublished", Value: true}},
		bson.D{{Key: "owner", Value: callerID}},
	}}}
}

// VisibilityExpr is IsVisible as an aggregation expression, for filtering
// joined video arrays where match clauses do not apply.
func VisibilityExpr(videoRef, callerID string) bson.D {
	return bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "$eq", Value: bson.A{videoRef + ".isPublished", true}}},
		bson.D{{Key: "$eq", Value: bson.A{videoRef + ".owner", callerID}}},
	}}}
}
