package model

import "strconv"

// ID is a movie identifier assigned by the catalog
type ID int64

func ParseID(s string) (ID, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return ID(id), nil
}

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}
