package repositories

import (
	"testing"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vidtube/backend/internal/pipeline"
)

func stageIndex(p mongo.Pipeline, key string) int {
	for i, stage := range p {
		if stage[0].Key == key {
			return i
		}
	}
	return -1
}

func lastStageIndex(p mongo.Pipeline, key string) int {
	last := -1
	for i, stage := range p {
		if stage[0].Key == key {
			last = i
		}
	}
	return last
}

func TestLikedVideosPipelinePaginatesVisibleResults(t *testing.T) {
	p := likedVideosPipeline("user-1", pipeline.Page{Number: 2, Limit: 10}).Build()

	visibility := lastStageIndex(p, "$match")
	root := stageIndex(p, "$replaceRoot")
	skip := stageIndex(p, "$skip")
	limit := stageIndex(p, "$limit")

	if visibility <= root {
		t.Fatalf("visibility match at %d must follow replaceRoot at %d", visibility, root)
	}
	if skip <= visibility {
		t.Fatalf("skip at %d must follow the visibility match at %d", skip, visibility)
	}
	if limit != len(p)-1 || skip != limit-1 {
		t.Fatalf("skip/limit must be the final stages, got skip=%d limit=%d of %d", skip, limit, len(p))
	}
}

func TestLikedVideosPipelineSortsBeforeJoin(t *testing.T) {
	p := likedVideosPipeline("user-1", pipeline.Page{Number: 1, Limit: 10}).Build()

	sort := stageIndex(p, "$sort")
	join := stageIndex(p, "$lookup")
	if sort == -1 || sort >= join {
		t.Fatalf("like-time sort at %d must precede the video join at %d", sort, join)
	}
}

func TestSubscriptionProfilesPipelinePaginatesJoinedProfiles(t *testing.T) {
	p := subscriptionProfilesPipeline("channel", "chan-1", "subscriber", pipeline.Page{Number: 3, Limit: 5}).Build()

	root := stageIndex(p, "$replaceRoot")
	skip := stageIndex(p, "$skip")
	limit := stageIndex(p, "$limit")

	if skip <= root {
		t.Fatalf("skip at %d must follow replaceRoot at %d", skip, root)
	}
	if limit != len(p)-1 || skip != limit-1 {
		t.Fatalf("skip/limit must be the final stages, got skip=%d limit=%d of %d", skip, limit, len(p))
	}
}
