package core_test

import (
	"context"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/JonMunkholm/iatacodes/internal/core"
	_ "github.com/JonMunkholm/iatacodes/internal/core/tables"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bom = "\ufeff"

func newExportService(t *testing.T, locale string, opts ...core.Option) (*core.Service, *testClock) {
	t.Helper()
	seoul, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)
	f, err := core.NewFormatter(locale, seoul)
	require.NoError(t, err)
	return newTestService(t, append([]core.Option{core.WithFormatter(f)}, opts...)...)
}

func TestExport_EmptyAirports(t *testing.T) {
	svc, _ := newExportService(t, "ko-KR")

	out, err := svc.Export(context.Background(), "airports")
	require.NoError(t, err)

	assert.Equal(t, "airports_2024-05-01.csv", out.Filename)
	assert.Equal(t, 0, out.Rows)
	assert.Equal(t, bom+"ID,IATA코드,ICAO코드,공항명,도시,국가코드,위도,경도,고도,시간대,활성상태,생성일,수정일", string(out.Content))
}

func TestExport_Airlines(t *testing.T) {
	svc, clock := newExportService(t, "ko-KR")
	ctx := context.Background()

	ke, err := svc.CreateAirline(ctx, koreanAir())
	require.NoError(t, err)
	oz, err := svc.CreateAirline(ctx, core.AirlineInput{
		NumericCode: "988", IATACode: "OZ", Name: `Asiana "Star" Airlines`, Active: boolFalse(),
	})
	require.NoError(t, err)

	clock.Set(time.Date(2024, 5, 2, 15, 4, 5, 0, time.UTC))
	out, err := svc.Export(ctx, "airlines")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimPrefix(string(out.Content), bom), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID,숫자코드,IATA코드,항공사명,국가코드,활성상태,생성일,수정일", lines[0])
	assert.Equal(t,
		oz.ID.String()+`,988,OZ,"Asiana ""Star"" Airlines",,비활성,2024. 5. 1. 오전 9:30:00,2024. 5. 1. 오전 9:30:00`,
		lines[1], "null country renders as an empty column")
	assert.Equal(t,
		ke.ID.String()+`,180,KE,"Korean Air",KR,활성,2024. 5. 1. 오전 9:30:00,2024. 5. 1. 오전 9:30:00`,
		lines[2])

	assert.Equal(t, 2, out.Rows)
	assert.Equal(t, "airlines_2024-05-02.csv", out.Filename, "file name uses the UTC date")
}

func TestExport_AirportsEnglish(t *testing.T) {
	svc, _ := newExportService(t, "en-US")
	ctx := context.Background()

	in := incheon()
	in.Name = "Incheon, Seoul"
	a, err := svc.CreateAirport(ctx, in)
	require.NoError(t, err)

	out, err := svc.Export(ctx, "airports")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimPrefix(string(out.Content), bom), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "ID,IATA code,ICAO code,Airport name,City,Country code,Latitude,Longitude,Elevation,Timezone,Status,Created at,Updated at", lines[0])
	assert.Equal(t,
		a.ID.String()+`,ICN,RKSI,"Incheon, Seoul","Incheon",KR,37.4602,126.4407,,Asia/Seoul,Active,"5/1/2024, 9:30:00 AM","5/1/2024, 9:30:00 AM"`,
		lines[1])
}

func TestExport_UnknownTable(t *testing.T) {
	svc, _ := newExportService(t, "ko-KR")

	_, err := svc.Export(context.Background(), "runways")
	require.Error(t, err)
	assert.Equal(t, core.KindInternal, core.KindOf(err))
	assert.Equal(t, "EXP001", core.MapError(err).Code)
}

func TestExport_LimiterFull(t *testing.T) {
	limiter := core.NewExportLimiter(1, 10*time.Millisecond)
	svc, _ := newExportService(t, "ko-KR", core.WithExportLimiter(limiter))

	require.NoError(t, limiter.Acquire(context.Background()))
	_, err := svc.Export(context.Background(), "airlines")
	assert.Equal(t, core.KindUnavailable, core.KindOf(err))

	limiter.Release()
	_, err = svc.Export(context.Background(), "airlines")
	require.NoError(t, err)
	assert.Equal(t, 0, limiter.ActiveCount())
	assert.NoError(t, svc.DrainExports(context.Background()))
}

func TestTables(t *testing.T) {
	svc, _ := newExportService(t, "ko-KR")
	_, err := svc.CreateAirline(context.Background(), koreanAir())
	require.NoError(t, err)

	stats, err := svc.Tables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []core.TableStat{
		{Key: "airlines", Label: "항공사", Rows: 1},
		{Key: "airports", Label: "공항", Rows: 0},
	}, stats)
}

func boolFalse() *bool {
	b := false
	return &b
}
