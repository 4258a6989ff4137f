package models

import "strings"

type IdentifierKind int

const (
	IdentifierEmail IdentifierKind = iota + 1
	IdentifierPhone
)

// Identifier — email ИЛИ телефон, различается один раз на границе хендлера,
// дальше по слоям уже не гуляют два опциональных поля.
type Identifier struct {
	Kind  IdentifierKind
	Value string
}

func EmailIdentifier(email string) Identifier {
	return Identifier{Kind: IdentifierEmail, Value: strings.TrimSpace(strings.ToLower(email))}
}

func PhoneIdentifier(phone string) Identifier {
	return Identifier{Kind: IdentifierPhone, Value: strings.TrimSpace(phone)}
}

// NewIdentifier выбирает email, если он задан, иначе телефон.
// Пустой identifier (IsZero) — ошибка валидации на стороне вызывающего.
func NewIdentifier(email, phone string) Identifier {
	if strings.TrimSpace(email) != "" {
		return EmailIdentifier(email)
	}
	if strings.TrimSpace(phone) != "" {
		return PhoneIdentifier(phone)
	}
	return Identifier{}
}

func (id Identifier) IsZero() bool {
	return id.Kind == 0 || id.Value == ""
}

func (id Identifier) String() string {
	switch id.Kind {
	case IdentifierEmail:
		return "email:" + id.Value
	case IdentifierPhone:
		return "phone:" + id.Value
	}
	return ""
}
