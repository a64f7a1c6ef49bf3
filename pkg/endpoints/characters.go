package endpoints

import (
	"context"
	"strconv"
)

// CharacterPublicInfo returns public information about a character.
func CharacterPublicInfo(ctx context.Context, r Requester, characterID int64) (any, error) {
	return r.Get(ctx, "/characters/"+id(characterID)+"/", nil, nil)
}

// CharacterAssets returns every asset page of a character. Requires a token.
func CharacterAssets(ctx context.Context, r Requester, characterID int64) (any, error) {
	return r.Get(ctx, "/characters/"+id(characterID)+"/assets/", nil, nil)
}

// CharacterWallet returns the wallet balance of a character. Requires a token.
func CharacterWallet(ctx context.Context, r Requester, characterID int64) (any, error) {
	return r.Get(ctx, "/characters/"+id(characterID)+"/wallet/", nil, nil)
}

// Recipient addresses an EVE mail.
type Recipient struct {
	RecipientID   int64  `json:"recipient_id"`
	RecipientType string `json:"recipient_type"`
}

// Mail is the payload of SendMail.
type Mail struct {
	ApprovedCost int64       `json:"approved_cost,omitempty"`
	Body         string      `json:"body"`
	Recipients   []Recipient `json:"recipients"`
	Subject      string      `json:"subject"`
}

// SendMail sends an EVE mail and returns the new mail id.
// Note that the client retries POST on transient errors unless
// Config.IdempotentRetriesOnly is set, which may send a mail twice.
func SendMail(ctx context.Context, r Requester, characterID int64, mail Mail) (any, error) {
	return r.Post(ctx, "/characters/"+id(characterID)+"/mail/", nil, nil, mail)
}

// AddContacts adds contacts with the given standing.
func AddContacts(ctx context.Context, r Requester, characterID int64, standing float64, contactIDs []int64) (any, error) {
	query := map[string]string{"standing": strconv.FormatFloat(standing, 'f', -1, 64)}
	return r.Post(ctx, "/characters/"+id(characterID)+"/contacts/", query, nil, contactIDs)
}

// EditContacts changes the standing of existing contacts.
func EditContacts(ctx context.Context, r Requester, characterID int64, standing float64, contactIDs []int64) (any, error) {
	query := map[string]string{"standing": strconv.FormatFloat(standing, 'f', -1, 64)}
	return r.Put(ctx, "/characters/"+id(characterID)+"/contacts/", query, nil, contactIDs)
}

// DeleteContacts removes contacts.
func DeleteContacts(ctx context.Context, r Requester, characterID int64, contactIDs []int64) (any, error) {
	query := map[string]string{"contact_ids": joinIDs(contactIDs)}
	return r.Delete(ctx, "/characters/"+id(characterID)+"/contacts/", query, nil)
}
