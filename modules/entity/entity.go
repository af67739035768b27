package entity

import "strconv"

// ID is the surrogate key of a persisted entity. The zero ID marks an entity
// that has not been stored yet.
type ID int64

func (id ID) IsNew() bool {
	return id == 0
}

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseID parses a positive decimal identifier.
func ParseID(s string) (ID, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, strconv.ErrRange
	}
	return ID(v), nil
}

type Entity interface {
	EntityID() ID
}

// Same reports whether a and b denote the same stored entity. New entities
// are never the same as anything, including themselves.
func Same(a, b Entity) bool {
	if a == nil || b == nil {
		return false
	}
	id := a.EntityID()
	return !id.IsNew() && id == b.EntityID()
}
