package pipeline

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestBuildPreservesStageOrder(t *testing.T) {
	p := Pipeline{
		MatchField("owner", "user-1"),
		Sort("createdAt", false),
		Skip(10),
		Limit(5),
	}

	built := p.Build()
	if len(built) != 4 {
		t.Fatalf("expected 4 stages got %d", len(built))
	}

	wantKeys := []string{"$match", "$sort", "$skip", "$limit"}
	for i, doc := range built {
		if doc[0].Key != wantKeys[i] {
			t.Fatalf("stage %d key = %q, want %q", i, doc[0].Key, wantKeys[i])
		}
	}
}

func TestSortDirection(t *testing.T) {
	asc := Sort("views", true).Document()
	spec := asc[0].Value.(bson.D)
	if spec[0].Key != "views" || spec[0].Value != 1 {
		t.Fatalf("ascending sort spec = %v", spec)
	}

	desc := Sort("views", false).Document()
	spec = desc[0].Value.(bson.D)
	if spec[0].Value != -1 {
		t.Fatalf("descending sort spec = %v", spec)
	}
}

func TestJoinDocument(t *testing.T) {
	doc := Join("users", "owner", "_id", "ownerInfo").Document()
	want := bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: "users"},
		{Key: "localField", Value: "owner"},
		{Key: "foreignField", Value: "_id"},
		{Key: "as", Value: "ownerInfo"},
	}}}
	if !reflect.DeepEqual(doc, want) {
		t.Fatalf("join document = %v, want %v", doc, want)
	}
}

func TestTextSearchClause(t *testing.T) {
	clause := TextSearch("cats")
	want := bson.E{Key: "$text", Value: bson.D{{Key: "$search", Value: "cats"}}}
	if !reflect.DeepEqual(clause, want) {
		t.Fatalf("text search clause = %v, want %v", clause, want)
	}

	doc := Match(bson.D{clause}).Document()
	wantDoc := bson.D{{Key: "$match", Value: bson.D{want}}}
	if !reflect.DeepEqual(doc, wantDoc) {
		t.Fatalf("text search match = %v, want %v", doc, wantDoc)
	}
}

func TestSizeOfTreatsMissingArrayAsEmpty(t *testing.T) {
	doc := SizeOf("$likes")
	want := bson.D{{Key: "$size", Value: bson.D{
		{Key: "$ifNull", Value: bson.A{"$likes", bson.A{}}},
	}}}
	if !reflect.DeepEqual(doc, want) {
		t.Fatalf("SizeOf = %v, want %v", doc, want)
	}
}

func TestMemberOfTreatsMissingArrayAsEmpty(t *testing.T) {
	doc := MemberOf("user-1", "$likes.likedBy")
	want := bson.D{{Key: "$in", Value: bson.A{
		"user-1",
		bson.D{{Key: "$ifNull", Value: bson.A{"$likes.likedBy", bson.A{}}}},
	}}}
	if !reflect.DeepEqual(doc, want) {
		t.Fatalf("MemberOf = %v, want %v", doc, want)
	}
}

func TestPageStages(t *testing.T) {
	stages := Page{Number: 3, Limit: 10}.Stages()
	if len(stages) != 2 {
		t.Fatalf("expected skip and limit, got %d stages", len(stages))
	}

	skip := stages[0].Document()
	if skip[0].Key != "$skip" || skip[0].Value != int64(20) {
		t.Fatalf("unexpected skip stage: %v", skip)
	}
	limit := stages[1].Document()
	if limit[0].Key != "$limit" || limit[0].Value != int64(10) {
		t.Fatalf("unexpected limit stage: %v", limit)
	}
}
