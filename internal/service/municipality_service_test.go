package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListMunicipalitiesProjectsDirectory(t *testing.T) {
	munRepo := newFakeMunicipalityRepo()
	svc := NewMunicipalityService(munRepo)
	ctx := context.Background()

	_, err := munRepo.FindOrCreate(ctx, "Vilnius")
	require.NoError(t, err)
	_, err = munRepo.FindOrCreate(ctx, "Kaunas")
	require.NoError(t, err)

	municipalities, total, err := svc.ListMunicipalities(ctx, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, municipalities, 2)

	names := []string{municipalities[0].Name, municipalities[1].Name}
	assert.ElementsMatch(t, []string{"Vilnius", "Kaunas"}, names)
}
