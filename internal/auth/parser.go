package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Bostads-AB-Mimer/onecore-leasing/internal/model"
)

var ErrInvalidToken = errors.New("invalid token")

type claims struct {
	jwt.RegisteredClaims
	ContactCode string `json:"contactCode,omitempty"`
	Role        string `json:"role"`
}

// Parser validates HS256 access tokens issued by the auth service and maps
// them to a Principal.
type Parser struct {
	secret []byte
}

func NewParser(secret string) *Parser {
	return &Parser{secret: []byte(secret)}
}

func (p *Parser) Parse(token string) (model.Principal, error) {
	var parsed claims
	_, err := jwt.ParseWithClaims(token, &parsed, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return model.Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	userID, err := uuid.Parse(parsed.Subject)
	if err != nil {
		return model.Principal{}, fmt.Errorf("%w: subject is not a uuid", ErrInvalidToken)
	}
	if parsed.Role == "" {
		return model.Principal{}, fmt.Errorf("%w: role claim missing", ErrInvalidToken)
	}

	return model.Principal{
		UserID:      userID,
		ContactCode: parsed.ContactCode,
		Role:        parsed.Role,
	}, nil
}
