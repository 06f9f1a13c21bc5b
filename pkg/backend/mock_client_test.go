package backend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-cabinet-admin/components/dashboard"
	"github.com/goliatone/go-cabinet-admin/components/reports"
)

func TestMockClientPagesFixtures(t *testing.T) {
	client := NewMockClient(DemoData())
	page, err := client.ListCabinets(context.Background(), dashboard.PageRequest{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Results, 1)
	assert.Equal(t, int64(3), page.Results[0].ID)
}

func TestMockClientListingLifecycle(t *testing.T) {
	client := NewMockClient(MockData{})
	ctx := context.Background()

	require.NoError(t, client.AddVacancies(ctx, "1", dashboard.VacancyBatch{
		IDs:       []string{"a", "b"},
		Titles:    []string{"Кладовщик"},
		Addresses: []string{"Москва", "Казань"},
	}))
	require.NoError(t, client.ReplaceCities(ctx, "1", dashboard.CityReplacement{
		OldCities:    []string{"Москва"},
		NewAddresses: []string{"Москва, ул. Ленина 1"},
	}))
	page, err := client.CabinetFile(ctx, "1", dashboard.PageRequest{})
	require.NoError(t, err)
	require.Len(t, page.Results, 2)
	assert.Equal(t, "Москва, ул. Ленина 1", page.Results[0].Address)
	assert.Equal(t, "Казань", page.Results[1].Address)

	updated := page.Results[0]
	updated.Title = "Старший кладовщик"
	require.NoError(t, client.UpdateVacancy(ctx, "1", updated))
	require.NoError(t, client.DeleteVacancy(ctx, "1", "b"))
	assert.ErrorIs(t, client.DeleteVacancy(ctx, "1", "b"), ErrNotFound)

	page, _ = client.CabinetFile(ctx, "1", dashboard.PageRequest{})
	require.Len(t, page.Results, 1)
	assert.Equal(t, "Старший кладовщик", page.Results[0].Title)
}

func TestMockClientUploadAppendsImages(t *testing.T) {
	client := NewMockClient(MockData{})
	ctx := context.Background()

	urls, err := client.UploadCabinetImages(ctx, "1", []dashboard.ImageFile{{Name: "dir/front.png"}, {}})
	require.NoError(t, err)
	assert.Equal(t, []string{"/static/images/1/front.png", "/static/images/1/image-2"}, urls)

	listed, err := client.CabinetImages(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, urls, listed)
}

func TestMockClientReportsRoundTrip(t *testing.T) {
	client := NewMockClient(DemoData())
	ctx := context.Background()
	graphs := "линейный_график"

	ref, err := client.CreateReport(ctx, reports.CreatePayload{Name: "Новый", Template: "compact", Metrics: "просмотры", Graphs: &graphs})
	require.NoError(t, err)
	assert.Equal(t, "2", ref.ID)

	rows, err := client.ListReports(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	data, err := client.ReportRenderData(ctx, ref.ID)
	require.NoError(t, err)
	assert.Equal(t, "линейный_график", data.Graphs)

	_, err = client.ReportRenderData(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDemoDataDecodes(t *testing.T) {
	data := DemoData()
	for _, row := range data.Reports {
		_, err := reports.DecodeStored(nil, row)
		require.NoError(t, err)
	}
	for _, raw := range data.RenderData {
		_, err := reports.DecodeRenderData(nil, raw)
		require.NoError(t, err)
	}
}
