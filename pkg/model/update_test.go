package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAddress = "3b6a27bcceb6a42d62a3a8d02a6f0d73653215771de243a63ac048a18b59da29"

func testUpdate() *Update {
	u := NewUpdate("fair-journal", testAddress, 1)
	u.AddAction(NewAddUser(testAddress)).
		AddAction(NewAddDirectory("/articles")).
		AddAction(NewAddFile("/articles/index-json", "application/json", 100, "c0535e4be2b79ffd93291305436bf889314e4a3faec05ecffcbb7df31ad9e51a"))
	u.SetSignature([]byte{0xde, 0xad})
	return u
}

func TestUpdateWireFormat(t *testing.T) {
	u := testUpdate()

	data, err := u.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"actionType":"addDirectory"`)
	assert.Contains(t, string(data), `"actionData":{"path":"/articles"}`)
	assert.Contains(t, string(data), `"signature":"dead"`)

	decoded, err := UnmarshalUpdate(data)
	require.NoError(t, err)
	assert.Equal(t, u, decoded)
}

func TestUpdateUnknownAction(t *testing.T) {
	_, err := UnmarshalUpdate([]byte(`{"projectName":"p","userAddress":"a","id":1,"actions":[{"actionType":"rmRf","actionData":{}}],"signature":"00"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown action type "rmRf"`)

	_, err = UnmarshalUpdate([]byte(`{"actions":[{"actionType":"addUser"}]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing actionData")
}

func TestSignData(t *testing.T) {
	u := testUpdate()
	first, err := u.SignData()
	require.NoError(t, err)

	again, err := testUpdate().SignData()
	require.NoError(t, err)
	assert.Equal(t, first, again, "sign data must be deterministic")

	// the signature is not part of the signed payload
	u.SetSignature([]byte{0xbe, 0xef})
	unsigned, err := u.SignData()
	require.NoError(t, err)
	assert.Equal(t, first, unsigned)

	for _, mutate := range []func(*Update){
		func(u *Update) { u.ProjectName = "other" },
		func(u *Update) { u.ID = 2 },
		func(u *Update) { u.Actions[0], u.Actions[1] = u.Actions[1], u.Actions[0] },
		func(u *Update) { u.Actions[2] = NewAddFile("/articles/index-json", "application/json", 101, "00") },
	} {
		tampered := testUpdate()
		mutate(tampered)
		data, err := tampered.SignData()
		require.NoError(t, err)
		assert.NotEqual(t, first, data)
	}
}

func TestUpdateValidate(t *testing.T) {
	require.NoError(t, testUpdate().Validate())

	for _, mutate := range []func(*Update){
		func(u *Update) { u.ProjectName = "" },
		func(u *Update) { u.UserAddress = "" },
		func(u *Update) { u.Actions = nil },
		func(u *Update) { u.Signature = "" },
		func(u *Update) { u.Actions = append(u.Actions, nil) },
	} {
		u := testUpdate()
		mutate(u)
		require.Error(t, u.Validate())
	}

	// sequence numbers are checked against the author's log, not here
	u := testUpdate()
	u.ID = 0
	require.NoError(t, u.Validate())
}
