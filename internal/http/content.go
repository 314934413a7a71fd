package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/andreasstove999/ecommerce-system/ui-backend-go/internal/shop"
)

// decodeCartDeltas reads a {"content": {"<productId>": <delta>, ...}} body.
// Deltas are returned in document order, duplicates included; a Go map would
// lose both.
func decodeCartDeltas(r io.Reader) ([]shop.CartDelta, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	deltas := []shop.CartDelta{}
	for dec.More() {
		key, err := objectKey(dec)
		if err != nil {
			return nil, err
		}
		if key != "content" {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, err
			}
			continue
		}
		if deltas, err = decodeContent(dec, deltas); err != nil {
			return nil, err
		}
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return deltas, nil
}

func decodeContent(dec *json.Decoder, deltas []shop.CartDelta) ([]shop.CartDelta, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if tok == nil {
		return deltas, nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("content must be an object")
	}

	for dec.More() {
		id, err := objectKey(dec)
		if err != nil {
			return nil, err
		}

		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		num, ok := tok.(json.Number)
		if !ok {
			return nil, fmt.Errorf("units of %q must be a number", id)
		}
		units, err := num.Int64()
		if err != nil {
			return nil, fmt.Errorf("units of %q must be an integer", id)
		}
		deltas = append(deltas, shop.CartDelta{ProductID: id, Units: int(units)})
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return deltas, nil
}

func objectKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("unexpected token %v", tok)
	}
	return key, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
