package model

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ActionType tags the kind of an action on the wire
type ActionType string

// Known action types
const (
	ActionAddUser      ActionType = "addUser"
	ActionAddDirectory ActionType = "addDirectory"
	ActionAddFile      ActionType = "addFile"
)

// Action is a single mutation of a namespace.
//
// The set of actions is closed: only the types declared in this package implement it.
type Action interface {
	Type() ActionType
	isAction()
}

// AddUser initializes the namespace root of a new user
type AddUser struct {
	UserAddress string `json:"userAddress"`
}

// AddDirectory creates a directory
type AddDirectory struct {
	Path string `json:"path"`
}

// AddFile creates a file bound to a previously ingested blob
type AddFile struct {
	Path     string `json:"path"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
	Hash     string `json:"hash"`
}

// Type of action
func (AddUser) Type() ActionType { return ActionAddUser }

// Type of action
func (AddDirectory) Type() ActionType { return ActionAddDirectory }

// Type of action
func (AddFile) Type() ActionType { return ActionAddFile }

func (AddUser) isAction()      {}
func (AddDirectory) isAction() {}
func (AddFile) isAction()      {}

// NewAddUser builds an action registering a user
func NewAddUser(address string) Action { return AddUser{UserAddress: address} }

// NewAddDirectory builds an action creating a directory
func NewAddDirectory(path string) Action { return AddDirectory{Path: path} }

// NewAddFile builds an action creating a file
func NewAddFile(path, mimeType string, size int64, hash string) Action {
	return AddFile{Path: path, MimeType: mimeType, Size: size, Hash: hash}
}

// actionEnvelope is the wire representation of an action
type actionEnvelope struct {
	ActionType ActionType          `json:"actionType"`
	ActionData jsoniter.RawMessage `json:"actionData"`
}

// Actions is an ordered list of actions, with a tagged JSON representation
type Actions []Action

// MarshalJSON encodes each action as {"actionType": ..., "actionData": {...}}
func (a Actions) MarshalJSON() ([]byte, error) {
	envelopes := make([]actionEnvelope, 0, len(a))
	for _, action := range a {
		if action == nil {
			return nil, fmt.Errorf("cannot marshal a nil action")
		}
		data, err := json.Marshal(action)
		if err != nil {
			return nil, err
		}
		envelopes = append(envelopes, actionEnvelope{ActionType: action.Type(), ActionData: data})
	}
	return json.Marshal(envelopes)
}

// UnmarshalJSON decodes tagged actions, rejecting unknown action types
func (a *Actions) UnmarshalJSON(data []byte) error {
	var envelopes []actionEnvelope
	if err := json.Unmarshal(data, &envelopes); err != nil {
		return err
	}
	actions := make(Actions, 0, len(envelopes))
	for i, envelope := range envelopes {
		action, err := decodeAction(envelope)
		if err != nil {
			return fmt.Errorf("action #%d: %w", i, err)
		}
		actions = append(actions, action)
	}
	*a = actions
	return nil
}

func decodeAction(envelope actionEnvelope) (Action, error) {
	if len(envelope.ActionData) == 0 {
		return nil, fmt.Errorf("missing actionData for %q", envelope.ActionType)
	}
	switch envelope.ActionType {
	case ActionAddUser:
		var action AddUser
		err := json.Unmarshal(envelope.ActionData, &action)
		return action, err
	case ActionAddDirectory:
		var action AddDirectory
		err := json.Unmarshal(envelope.ActionData, &action)
		return action, err
	case ActionAddFile:
		var action AddFile
		err := json.Unmarshal(envelope.ActionData, &action)
		return action, err
	default:
		return nil, fmt.Errorf("unknown action type %q", envelope.ActionType)
	}
}
