package model

import (
	"encoding/hex"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Update is one signed, sequenced batch of actions submitted by an author.
//
// Once accepted, an update is immutable. It is applied exactly once, and either fully or not at all.
type Update struct {
	ProjectName string  `json:"projectName"`
	UserAddress string  `json:"userAddress"`
	ID          uint64  `json:"id"`
	Actions     Actions `json:"actions"`
	Signature   string  `json:"signature"`
}

// NewUpdate prepares an unsigned update for an author, with the given sequence number
func NewUpdate(projectName, userAddress string, id uint64) *Update {
	return &Update{
		ProjectName: projectName,
		UserAddress: userAddress,
		ID:          id,
	}
}

// AddAction appends an action. Actions are applied in the order they are added.
func (u *Update) AddAction(action Action) *Update {
	u.Actions = append(u.Actions, action)
	return u
}

// SetSignature records the hex encoded signature of the update's sign data
func (u *Update) SetSignature(signature []byte) {
	u.Signature = hex.EncodeToString(signature)
}

// signedAction is the canonical representation of an action in the sign data
type signedAction struct {
	Type ActionType `cbor:"type"`
	Data Action     `cbor:"data"`
}

// signData holds every field covered by the signature
type signData struct {
	ProjectName string         `cbor:"projectName"`
	UserAddress string         `cbor:"userAddress"`
	ID          uint64         `cbor:"id"`
	Actions     []signedAction `cbor:"actions"`
}

var signEncoder cbor.EncMode

func init() {
	var err error
	signEncoder, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("cannot build canonical CBOR encoder: %v", err))
	}
}

// SignData returns the deterministic byte encoding of the fields covered by the signature:
// project, author, sequence number and ordered actions.
//
// The encoding is canonical CBOR (RFC 8949 core deterministic encoding).
func (u *Update) SignData() ([]byte, error) {
	payload := signData{
		ProjectName: u.ProjectName,
		UserAddress: u.UserAddress,
		ID:          u.ID,
		Actions:     make([]signedAction, 0, len(u.Actions)),
	}
	for i, action := range u.Actions {
		if action == nil {
			return nil, fmt.Errorf("action #%d is nil", i)
		}
		payload.Actions = append(payload.Actions, signedAction{Type: action.Type(), Data: action})
	}
	return signEncoder.Marshal(payload)
}

// Validate the shape of an update, before any signature or sequence check
func (u *Update) Validate() error {
	switch {
	case u.ProjectName == "":
		return fmt.Errorf("update has no project name")
	case u.UserAddress == "":
		return fmt.Errorf("update has no user address")
	case len(u.Actions) == 0:
		return fmt.Errorf("update has no action")
	case u.Signature == "":
		return fmt.Errorf("update is not signed")
	}
	for i, action := range u.Actions {
		if action == nil {
			return fmt.Errorf("action #%d is nil", i)
		}
	}
	return nil
}

// UnmarshalUpdate decodes an update from its JSON wire representation
func UnmarshalUpdate(data []byte) (*Update, error) {
	var u Update
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Marshal an update to its JSON wire representation
func (u *Update) Marshal() ([]byte, error) {
	return json.Marshal(u)
}
