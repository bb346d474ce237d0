package entity

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrUnsupportedEntity = errors.New("unsupported entity")
	ErrMissingParent     = errors.New("missing parent")
)

// Key derives the composite key of e from its natural attributes, prefixed by
// the key of its parent for child kinds.
func Key(e Entity) (string, error) {
	switch v := e.(type) {
	case *Campus:
		if v == nil {
			break
		}
		return "c-" + v.shortName, nil
	case *Building:
		if v == nil {
			break
		}
		if v.campus == nil {
			return "", missingParent(KindBuilding)
		}
		parent, err := Key(v.campus)
		if err != nil {
			return "", err
		}
		return parent + "_b-" + v.shortName, nil
	case *Room:
		if v == nil {
			break
		}
		if v.building == nil {
			return "", missingParent(KindRoom)
		}
		parent, err := Key(v.building)
		if err != nil {
			return "", err
		}
		return parent + "_r-" + v.number, nil
	case *Instructor:
		if v == nil {
			break
		}
		return "i-" + v.identifier, nil
	case *Term:
		if v == nil {
			break
		}
		return strconv.Itoa(v.year) + "-" + v.semester, nil
	case *TermBlock:
		if v == nil {
			break
		}
		if v.term == nil {
			return "", missingParent(KindTermBlock)
		}
		parent, err := Key(v.term)
		if err != nil {
			return "", err
		}
		return parent + "_b-" + v.shortName, nil
	case *Subject:
		if v == nil {
			break
		}
		return "sub-" + v.name, nil
	case *Course:
		if v == nil {
			break
		}
		if v.subject == nil {
			return "", missingParent(KindCourse)
		}
		parent, err := Key(v.subject)
		if err != nil {
			return "", err
		}
		return parent + " (" + v.number + ")", nil
	case *Section:
		if v == nil {
			break
		}
		if v.refs.Block == nil {
			return "", missingParent(KindSection)
		}
		parent, err := Key(v.refs.Block)
		if err != nil {
			return "", err
		}
		return parent + "_sec-" + v.attrs.CRN, nil
	}
	return "", fmt.Errorf("%w: %T", ErrUnsupportedEntity, e)
}

// MustKey is Key for callers that already validated the entity chain.
func MustKey(e Entity) string {
	k, err := Key(e)
	if err != nil {
		panic(err)
	}
	return k
}

func missingParent(child Kind) error {
	return fmt.Errorf("%w: %s has no parent", ErrMissingParent, child)
}
