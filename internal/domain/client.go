package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Field keys used in per-field validation errors
const (
	FieldName    = "name"
	FieldContact = "contact"
	FieldAddress = "address"
)

const (
	msgNameRequired    = "укажите имя"
	msgNameTooLong     = "имя слишком длинное"
	msgContactRequired = "укажите телефон или WhatsApp"
	msgContactInvalid  = "телефон может содержать только цифры, пробелы, +, -, ( и )"
	msgContactTooShort = "телефон должен содержать не менее 8 цифр"
	msgContactTooLong  = "телефон должен содержать не более 15 цифр"
	msgAddressRequired = "укажите адрес для выезда"
	msgAddressTooLong  = "адрес слишком длинный"
)

// Normalize trims surrounding whitespace from every field
func (c ClientDetails) Normalize() ClientDetails {
	return ClientDetails{
		Name:    strings.TrimSpace(c.Name),
		Contact: strings.TrimSpace(c.Contact),
		Address: strings.TrimSpace(c.Address),
	}
}

// Validate checks client details for the given location.
// Returns nil when valid, otherwise a message per offending field.
func (c ClientDetails) Validate(location LocationType) map[string]string {
	c = c.Normalize()
	fields := make(map[string]string)

	switch {
	case c.Name == "":
		fields[FieldName] = msgNameRequired
	case utf8.RuneCountInString(c.Name) > MaxClientNameLength:
		fields[FieldName] = msgNameTooLong
	}

	if msg := validateContact(c.Contact); msg != "" {
		fields[FieldContact] = msg
	}

	if location == LocationClientAddress {
		switch {
		case c.Address == "":
			fields[FieldAddress] = msgAddressRequired
		case utf8.RuneCountInString(c.Address) > MaxClientAddressLength:
			fields[FieldAddress] = msgAddressTooLong
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return fields
}

func validateContact(contact string) string {
	if contact == "" {
		return msgContactRequired
	}

	digits := 0
	for _, r := range contact {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '+' || r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return msgContactInvalid
		}
	}

	if digits < MinContactDigits {
		return msgContactTooShort
	}
	if digits > MaxContactDigits {
		return msgContactTooLong
	}
	return ""
}
