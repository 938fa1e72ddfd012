package books

import (
	"regexp"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// searchableFields are the fields a free-text search term is matched against.
var searchableFields = []string{"title", "author", "genre", "publicationDate"}

// filterPublicationYear is translated into a prefix match on publicationDate
// instead of an exact match on a field of its own.
const filterPublicationYear = "publicationYear"

// BuildPredicate turns a free-text search term and a set of field filters
// into a find predicate.
//
// A non-empty search term becomes a disjunction over the searchable fields,
// each clause a case-insensitive substring match. Each filter becomes a
// case-insensitive exact match against its field, except publicationYear,
// which becomes a case-insensitive prefix match against publicationDate. All
// clauses are combined with AND; with no input the predicate matches every
// document.
//
// Filter field names are passed through literally: a filter on a field the
// Book schema doesn't have simply matches nothing. The caller is responsible
// for sorting the results; the predicate carries no ordering.
func BuildPredicate(searchTerm string, filters map[string]string) bson.M {
	clauses := []bson.M{}

	if searchTerm != "" {
		or := make([]bson.M, 0, len(searchableFields))
		for _, field := range searchableFields {
			or = append(or, bson.M{field: primitive.Regex{
				Pattern: regexp.QuoteMeta(searchTerm),
				Options: "i",
			}})
		}
		clauses = append(clauses, bson.M{"$or": or})
	}

	// Sorted for a deterministic clause order.
	fields := make([]string, 0, len(filters))
	for field := range filters {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		value := filters[field]
		target := field
		pattern := "^" + regexp.QuoteMeta(value) + "$"
		if field == filterPublicationYear {
			target = "publicationDate"
			pattern = "^" + regexp.QuoteMeta(value)
		}
		clauses = append(clauses, bson.M{target: primitive.Regex{
			Pattern: pattern,
			Options: "i",
		}})
	}

	switch len(clauses) {
	case 0:
		return bson.M{}
	case 1:
		return clauses[0]
	default:
		return bson.M{"$and": clauses}
	}
}

// recencySort orders find results most recently inserted first. Object IDs
// are time-prefixed, so descending _id is insertion order reversed.
var recencySort = bson.D{{Key: "_id", Value: -1}}
