// internal/app/store/query/predicate.go

// Package query defines a small typed predicate form for building store
// filters. Reporting code composes predicates; the store boundary
// translates them to the driver's filter document. This keeps dynamically
// assembled filters from ever touching fields they don't name.
package query

import "go.mongodb.org/mongo-driver/bson"

// Op is a comparison operator.
type Op string

const (
	OpEq  Op = "eq"
	OpNe  Op = "ne"
	OpGTE Op = "gte"
	OpLTE Op = "lte"
	OpIn  Op = "in"
)

// Predicate is one field/operator/value constraint.
type Predicate struct {
	Field string
	Op    Op
	Value interface{}
}

// ToBSON translates predicates into a Mongo filter document. Multiple
// predicates on the same field merge into one operator document, so a
// GTE/LTE pair becomes a single range constraint.
func ToBSON(preds []Predicate) bson.M {
	filter := bson.M{}
	for _, p := range preds {
		switch p.Op {
		case OpEq:
			filter[p.Field] = p.Value
		default:
			ops, ok := filter[p.Field].(bson.M)
			if !ok {
				ops = bson.M{}
				filter[p.Field] = ops
			}
			ops["$"+string(p.Op)] = p.Value
		}
	}
	return filter
}
