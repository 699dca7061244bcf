// Package pipeline provides a typed builder for the aggregation queries the
// repositories run against MongoDB. Every joined read follows the same
// shape: match, join, derive, project, sort, paginate. Expressing each
// stage as a value keeps the per-endpoint pipelines composable and lets
// each stage be tested in isolation.
package pipeline

import (
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Stage is one step of an aggregation pipeline.
type Stage interface {
	Document() bson.D
}

// Pipeline is an ordered sequence of stages.
type Pipeline []Stage

// Build compiles the stages into the driver's pipeline representation.
func (p Pipeline) Build() mongo.Pipeline {
	out := make(mongo.Pipeline, 0, len(p))
	for _, stage := range p {
		out = append(out, stage.Document())
	}
	return out
}

type matchStage struct{ filter bson.D }

func (s matchStage) Document() bson.D {
	return bson.D{{Key: "$match", Value: s.filter}}
}

// Match filters the working set by the provided clause.
func Match(filter bson.D) Stage { return matchStage{filter: filter} }

// MatchField filters on a single field equality.
func MatchField(field string, value any) Stage {
	return matchStage{filter: bson.D{{Key: field, Value: value}}}
}

// TextSearch is a match clause querying the collection's text index. A
// $text clause is only legal in a pipeline's first match stage, so it is
// a clause to fold into Match, not a stage of its own.
func TextSearch(query string) bson.E {
	return bson.E{Key: "$text", Value: bson.D{{Key: "$search", Value: query}}}
}

type joinStage struct {
	from, localField, foreignField, as string
}

func (s joinStage) Document() bson.D {
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: s.from},
		{Key: "localField", Value: s.localField},
		{Key: "foreignField", Value: s.foreignField},
		{Key: "as", Value: s.as},
	}}}
}

// Join left-joins another collection; an unmatched join yields an empty
// array, never an error.
func Join(from, localField, foreignField, as string) Stage {
	return joinStage{from: from, localField: localField, foreignField: foreignField, as: as}
}

type deriveStage struct{ fields bson.D }

func (s deriveStage) Document() bson.D {
	return bson.D{{Key: "$addFields", Value: s.fields}}
}

// Derive computes new fields from the working document, typically scalar
// aggregates over joined arrays.
func Derive(fields bson.D) Stage { return deriveStage{fields: fields} }

type projectStage struct{ fields bson.D }

func (s projectStage) Document() bson.D {
	return bson.D{{Key: "$project", Value: s.fields}}
}

// Project restricts output to a whitelisted field set.
func Project(fields bson.D) Stage { return projectStage{fields: fields} }

type sortStage struct {
	field     string
	ascending bool
}

func (s sortStage) Document() bson.D {
	direction := -1
	if s.ascending {
		direction = 1
	}
	return bson.D{{Key: "$sort", Value: bson.D{{Key: s.field, Value: direction}}}}
}

// Sort orders the working set on a single field.
func Sort(field string, ascending bool) Stage {
	return sortStage{field: field, ascending: ascending}
}

type skipStage struct{ n int64 }

func (s skipStage) Document() bson.D {
	return bson.D{{Key: "$skip", Value: s.n}}
}

// Skip drops the first n documents.
func Skip(n int64) Stage { return skipStage{n: n} }

type limitStage struct{ n int64 }

func (s limitStage) Document() bson.D {
	return bson.D{{Key: "$limit", Value: s.n}}
}

// Limit caps the working set at n documents.
func Limit(n int64) Stage { return limitStage{n: n} }

type unwindStage struct{ path string }

func (s unwindStage) Document() bson.D {
	return bson.D{{Key: "$unwind", Value: s.path}}
}

// Unwind flattens an array field into one document per element.
func Unwind(path string) Stage { return unwindStage{path: path} }

type groupStage struct {
	id     any
	fields bson.D
}

func (s groupStage) Document() bson.D {
	spec := bson.D{{Key: "_id", Value: s.id}}
	spec = append(spec, s.fields...)
	return bson.D{{Key: "$group", Value: spec}}
}

// Group accumulates the working set under the provided grouping key.
func Group(id any, fields bson.D) Stage { return groupStage{id: id, fields: fields} }

type replaceRootStage struct{ newRoot string }

func (s replaceRootStage) Document() bson.D {
	return bson.D{{Key: "$replaceRoot", Value: bson.D{{Key: "newRoot", Value: s.newRoot}}}}
}

// ReplaceRoot promotes the referenced embedded document to the root.
func ReplaceRoot(newRoot string) Stage { return replaceRootStage{newRoot: newRoot} }

// SizeOf counts the elements of an array field, treating a missing or
// null array as empty.
func SizeOf(path string) bson.D {
	return bson.D{{Key: "$size", Value: IfNull(path, bson.A{})}}
}

// MemberOf tests whether value appears in the array field, treating a
// missing array as empty.
func MemberOf(value any, path string) bson.D {
	return bson.D{{Key: "$in", Value: bson.A{value, IfNull(path, bson.A{})}}}
}

// FirstOf collapses a one-to-one join's array result to its single
// element, or null when the join matched nothing.
func FirstOf(path string) bson.D {
	return bson.D{{Key: "$arrayElemAt", Value: bson.A{path, 0}}}
}

// IfNull substitutes fallback when the referenced field is missing or null.
func IfNull(path string, fallback any) bson.D {
	return bson.D{{Key: "$ifNull", Value: bson.A{path, fallback}}}
}

// FilterArray keeps only array elements satisfying cond, binding each
// element to the provided name.
func FilterArray(input, as string, cond bson.D) bson.D {
	return bson.D{{Key: "$filter", Value: bson.D{
		{Key: "input", Value: input},
		{Key: "as", Value: as},
		{Key: "cond", Value: cond},
	}}}
}
