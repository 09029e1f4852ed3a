package postgres

import (
	"testing"

	"github.com/GoArmGo/ConnectApp/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareChildren(t *testing.T) {
	profileID := uuid.New()
	upd := domain.ProfileUpdate{
		Education: []domain.Education{
			{School: "MIT", Degree: "BSc"},
			{School: "Stanford", Degree: "MSc"},
		},
		PastWork: []domain.WorkHistory{
			{ID: uuid.New(), ProfileID: uuid.New(), Position: 7, Company: "Acme", Role: "Engineer", Years: "2"},
		},
	}

	education, work := prepareChildren(profileID, upd)

	require.Len(t, education, 2)
	for i, e := range education {
		assert.Equal(t, profileID, e.ProfileID)
		assert.Equal(t, i, e.Position)
		assert.NotEqual(t, uuid.Nil, e.ID)
	}
	assert.Equal(t, "MIT", education[0].School)
	assert.Equal(t, "Stanford", education[1].School)
	assert.NotEqual(t, education[0].ID, education[1].ID)

	require.Len(t, work, 1)
	assert.Equal(t, profileID, work[0].ProfileID)
	assert.Equal(t, 0, work[0].Position)
	assert.NotEqual(t, upd.PastWork[0].ID, work[0].ID, "client-supplied ids must not survive")
	assert.Equal(t, "Acme", work[0].Company)
}

func TestPrepareChildren_Empty(t *testing.T) {
	education, work := prepareChildren(uuid.New(), domain.ProfileUpdate{})
	assert.Empty(t, education)
	assert.Empty(t, work)
}
