package domain

import (
	"encoding/json"
	"time"
)

type cursorToken struct {
	Expires time.Time `json:"exp"`
	Pivot   Pivot     `json:"pivot"`
}

func (app *Application) encodeCursor(p Pivot) (string, error) {
	b, err := json.Marshal(cursorToken{Expires: app.clock.Now().Add(app.cursorTTL), Pivot: p})
	if err != nil {
		return "", err
	}
	return app.signer.Sign(b)
}

func (app *Application) decodeCursor(s string) (*Pivot, error) {
	raw, err := app.signer.Verify(s)
	if err != nil {
		return nil, ErrInvalidCursor
	}
	var tok cursorToken
	if err := json.Unmarshal(raw, &tok); err != nil {
		return nil, ErrInvalidCursor
	}
	if tok.Expires.IsZero() || app.clock.Now().After(tok.Expires) || tok.Pivot.ID.IsNew() {
		return nil, ErrInvalidCursor
	}
	return &tok.Pivot, nil
}
