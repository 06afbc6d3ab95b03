package resolver

import (
	"testing"

	"github.com/awantoch/trellis-mcp/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var entities = []model.Entity{
	{ID: "ent_1", Name: "Referral"},
	{ID: "ent_2", Name: "Patient"},
	{ID: "ent_3", Name: "Order"},
}

func TestResolveExactIgnoringCase(t *testing.T) {
	e, err := Entity(entities, "referral")
	require.NoError(t, err)
	assert.Equal(t, "ent_1", e.ID)

	e, err = Entity(entities, "PATIENT")
	require.NoError(t, err)
	assert.Equal(t, "ent_2", e.ID)
}

func TestResolveNoPartialMatch(t *testing.T) {
	_, err := Entity(entities, "Refer")
	var nf *model.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Refer", nf.Name)
	assert.Equal(t, `no entity found with name "Refer"`, err.Error())
}

func TestResolveAmbiguous(t *testing.T) {
	dup := append([]model.Entity{{ID: "ent_9", Name: "REFERRAL"}}, entities...)
	_, err := Entity(dup, "Referral")
	var amb *model.AmbiguousError
	require.ErrorAs(t, err, &amb)
	assert.Equal(t, 2, amb.Count)
	assert.Equal(t, `multiple entities found with name "Referral"`, err.Error())
}

func TestResolveFieldCarriesEntityContext(t *testing.T) {
	fields := []model.EntityField{{ID: "f1", Name: "Notes"}}
	_, err := Field(fields, "Summary", "Referral")
	require.Error(t, err)
	assert.Equal(t, `no field found with name "Summary" on entity "Referral"`, err.Error())
}

func TestResolveEmptyList(t *testing.T) {
	_, err := Transform(nil, "Summarize")
	assert.True(t, model.IsNotFound(err))
}

func TestFieldMapping(t *testing.T) {
	fields := []model.EntityField{{ID: "f1", Name: "First Name"}, {ID: "f2", Name: "Dob"}}
	out, err := FieldMapping(fields, map[string]string{"first name": "{{x.output}}", "DOB": "{{y.output}}"}, "Referral")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"f1": "{{x.output}}", "f2": "{{y.output}}"}, out)
}

func TestFieldMappingReportsAllMissing(t *testing.T) {
	fields := []model.EntityField{{ID: "f1", Name: "Notes"}}
	_, err := FieldMapping(fields, map[string]string{"Zip": "a", "Notes": "b", "City": "c"}, "Referral")
	var mf *model.MissingFieldsError
	require.ErrorAs(t, err, &mf)
	assert.Equal(t, []string{"City", "Zip"}, mf.Names)
	assert.Equal(t, `fields not found on entity "Referral": "City", "Zip"`, err.Error())
}

func TestFieldMappingAmbiguous(t *testing.T) {
	fields := []model.EntityField{{ID: "f1", Name: "Notes"}, {ID: "f2", Name: "notes"}}
	_, err := FieldMapping(fields, map[string]string{"Notes": "b"}, "Referral")
	var amb *model.AmbiguousError
	require.ErrorAs(t, err, &amb)
}
