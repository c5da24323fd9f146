package domain

import (
	"net/mail"
	"strings"
)

// RecipientKind discriminates the Recipient union in storage and JSON.
type RecipientKind string

const (
	RecipientExternal RecipientKind = "external"
	RecipientInternal RecipientKind = "internal"
)

// Recipient is who an RFI or submittal is sent to: either an outside party
// reached by email or a person inside the organisation.
type Recipient interface {
	Kind() RecipientKind
	Validate() error
}

type ExternalRecipient struct {
	Email string
	Name  string
}

func (ExternalRecipient) Kind() RecipientKind { return RecipientExternal }

func (r ExternalRecipient) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return &ValidationError{Field: "recipient.email", Message: "is required for an external recipient"}
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return &ValidationError{Field: "recipient.email", Message: quote(r.Email) + " is not a valid email"}
	}
	return nil
}

type InternalRecipient struct {
	OwnerID string
}

func (InternalRecipient) Kind() RecipientKind { return RecipientInternal }

func (r InternalRecipient) Validate() error {
	if strings.TrimSpace(r.OwnerID) == "" {
		return &ValidationError{Field: "recipient.owner_id", Message: "is required for an internal recipient"}
	}
	return nil
}

// RecipientFields is the flattened storage form of a Recipient.
type RecipientFields struct {
	Kind    string
	Email   string
	Name    string
	OwnerID string
}

// Flatten converts r into its storage columns. A nil recipient flattens to
// all-empty fields.
func Flatten(r Recipient) RecipientFields {
	switch v := r.(type) {
	case ExternalRecipient:
		return RecipientFields{Kind: string(RecipientExternal), Email: v.Email, Name: v.Name}
	case InternalRecipient:
		return RecipientFields{Kind: string(RecipientInternal), OwnerID: v.OwnerID}
	}
	return RecipientFields{}
}

// Unflatten rebuilds a Recipient from its storage columns.
func (f RecipientFields) Unflatten() Recipient {
	switch RecipientKind(f.Kind) {
	case RecipientExternal:
		return ExternalRecipient{Email: f.Email, Name: f.Name}
	case RecipientInternal:
		return InternalRecipient{OwnerID: f.OwnerID}
	}
	return nil
}
