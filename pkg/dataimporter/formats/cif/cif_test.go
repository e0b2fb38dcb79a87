package cif

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	records "github.com/travigo/cifparser/pkg/cif"
	"github.com/travigo/cifparser/pkg/dataimporter/datasets"
)

func cifFile(lines ...string) *bytes.Reader {
	var buf bytes.Buffer

	for _, line := range lines {
		buf.WriteString(line + strings.Repeat(" ", records.RecordLength-len(line)) + "\n")
	}

	return bytes.NewReader(buf.Bytes())
}

const (
	header       = "HDTPS.UDFROC1.PD1907050507191939DFROC2S       FA050719040720"
	tiplocInsert = "TIBLTNODR24853600DBOLTON-UPON-DEARNE        24011   0BTDBOLTON ON DEARNE"
	tiplocAmend  = "TAMBRK94200590970AMILLBROOK SIG E942        86536   0"
	association  = "AANY80987Y808801601041602121111100JJSPRST     TP                               P"
	schedule     = "BSRG828851510191510231100100 POO2N75    113575825 DMUE   090      S            O"
	cancellation = "BSNC123451510211510210010000                                                   C"
	extra        = "BX         SEY"
	origin       = "LOCHRX    0015 00156  FL     TB"
	intermediate = "LIWLOE    2327 2328      23272328C        T"
	passing      = "LIHTRWAJN           2330H00000000"
	change       = "CRCTRDJN  DT3Q27    152495112 D      030"
	terminating  = "LTTUNWELL 0125 01271     TF"
	trailer      = "ZZ"
)

func TestParseFileGroupsSchedules(t *testing.T) {
	format := &CommonInterfaceFormat{}

	err := format.ParseFile(cifFile(
		header, tiplocInsert, tiplocAmend, association,
		schedule, extra, origin, intermediate, passing, change, terminating,
		cancellation,
		trailer,
	))
	require.NoError(t, err)

	require.NotNil(t, format.Header)
	require.Equal(t, "DFROC2S", format.Header.CurrentFileRef)
	require.Len(t, format.TIPLOCs, 1)
	require.Len(t, format.TIPLOCAmends, 1)
	require.Len(t, format.Associations, 1)
	require.Equal(t, "Y80987", format.Associations[0].BaseUID)

	require.Len(t, format.TrainDefinitionSets, 2)

	trainDef := format.TrainDefinitionSets[0]
	require.True(t, trainDef.Complete())
	require.Equal(t, "gb-rail-G82885:151019:O", trainDef.PrimaryIdentifier())
	require.Equal(t, "SE", trainDef.BasicScheduleExtraDetails.ATOCCode)
	require.Equal(t, records.TIPLOC("CHRX"), trainDef.OriginLocation.Location)
	require.Len(t, trainDef.IntermediateLocations, 2)
	require.Len(t, trainDef.ChangesEnRoute, 1)
	require.Equal(t, records.TIPLOC("TUNWELL"), trainDef.TerminatingLocation.Location)

	cancelled := format.TrainDefinitionSets[1]
	require.False(t, cancelled.Complete())
	require.Equal(t, records.STPIndicatorCancellation, cancelled.BasicSchedule.STPIndicator)
}

func TestParseFileSkipsMalformedAssociation(t *testing.T) {
	format := &CommonInterfaceFormat{}

	err := format.ParseFile(cifFile(header, "AAX", association, trailer))
	require.NoError(t, err)
	require.Len(t, format.Associations, 1)
	require.Equal(t, "Y80987", format.Associations[0].BaseUID)
}

func TestParseFileUnterminatedSchedule(t *testing.T) {
	format := &CommonInterfaceFormat{}

	err := format.ParseFile(cifFile(schedule, extra, origin))
	require.NoError(t, err)
	require.Len(t, format.TrainDefinitionSets, 1)
	require.False(t, format.TrainDefinitionSets[0].Complete())
}

func TestLocationOutsideSchedule(t *testing.T) {
	tests := map[string][]string{
		"before any schedule": {header, origin},
		"after terminating":   {schedule, origin, terminating, intermediate},
		"extra details":       {extra},
	}

	for name, lines := range tests {
		t.Run(name, func(t *testing.T) {
			format := &CommonInterfaceFormat{}

			err := format.ParseFile(cifFile(lines...))
			require.ErrorIs(t, err, ErrOutsideSchedule)
		})
	}
}

func TestParseFileDecodeFailure(t *testing.T) {
	format := &CommonInterfaceFormat{}

	err := format.ParseFile(cifFile(header, "XX"))
	require.ErrorIs(t, err, records.ErrSyntax)
}

func TestCalls(t *testing.T) {
	format := &CommonInterfaceFormat{}
	require.NoError(t, format.ParseFile(cifFile(schedule, extra, origin, intermediate, passing, terminating)))

	calls, err := format.TrainDefinitionSets[0].Calls()
	require.NoError(t, err)
	require.Len(t, calls, 3)

	require.Equal(t, records.TIPLOC("CHRX"), calls[0].Location)
	require.Equal(t, records.NoTime, calls[0].PublicArrivalTime)
	require.Equal(t, records.NewScheduleTime(0, 15, 0), calls[0].PublicDepartureTime)
	require.Equal(t, "6", calls[0].Platform)
	require.Equal(t, []string{"TB"}, calls[0].Activities)

	require.Equal(t, records.TIPLOC("WLOE"), calls[1].Location)
	require.Equal(t, records.NewScheduleTime(23, 27, 0), calls[1].PublicArrivalTime)

	require.Equal(t, records.TIPLOC("TUNWELL"), calls[2].Location)
	require.Equal(t, records.NewScheduleTime(1, 25, 0), calls[2].ScheduledArrivalTime)
	require.Equal(t, records.NewScheduleTime(1, 27, 0), calls[2].PublicArrivalTime)
	require.Equal(t, []string{"TF"}, calls[2].Activities)
}

func TestRunsOn(t *testing.T) {
	format := &CommonInterfaceFormat{}
	require.NoError(t, format.ParseFile(cifFile(schedule, cancellation)))

	trainDef := format.TrainDefinitionSets[0]

	tests := []struct {
		date     time.Time
		expected bool
	}{
		{time.Date(2015, 10, 19, 8, 0, 0, 0, time.UTC), true},
		{time.Date(2015, 10, 20, 8, 0, 0, 0, time.UTC), true},
		{time.Date(2015, 10, 21, 8, 0, 0, 0, time.UTC), false},
		{time.Date(2015, 10, 23, 23, 59, 0, 0, time.UTC), true},
		{time.Date(2015, 10, 26, 8, 0, 0, 0, time.UTC), false},
		{time.Date(2015, 10, 16, 8, 0, 0, 0, time.UTC), false},
	}

	for _, test := range tests {
		runs, err := trainDef.RunsOn(test.date)
		require.NoError(t, err)
		require.Equal(t, test.expected, runs, test.date.String())
	}

	runs, err := format.TrainDefinitionSets[1].RunsOn(time.Date(2015, 10, 21, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.True(t, runs)
}

func TestRunsOnWithoutEndDate(t *testing.T) {
	trainDef := &TrainDefinitionSet{
		BasicSchedule: records.BasicSchedule{
			TransactionType: records.TransactionTypeDelete,
			TrainUID:        "Y12345",
			DateRunsFrom:    "151021",
			DaysRun:         "0010000",
		},
	}

	runs, err := trainDef.RunsOn(time.Date(2015, 10, 21, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.True(t, runs)

	runs, err = trainDef.RunsOn(time.Date(2015, 10, 28, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.False(t, runs)
}

func TestActivities(t *testing.T) {
	require.Equal(t, []string{"T"}, activities("T           "))
	require.Equal(t, []string{"TB", "OP"}, activities("TBOP        "))
	require.Empty(t, activities("            "))
}

func TestIgnored(t *testing.T) {
	trainDef := &TrainDefinitionSet{
		BasicSchedule:             records.BasicSchedule{TrainCategory: "OO"},
		BasicScheduleExtraDetails: records.BasicScheduleExtraDetails{ATOCCode: "SE"},
	}

	require.False(t, ignored(datasets.IgnoreObjectTrainDefinition{}, trainDef))
	require.True(t, ignored(datasets.IgnoreObjectTrainDefinition{ByOperator: []string{"SE"}}, trainDef))
	require.True(t, ignored(datasets.IgnoreObjectTrainDefinition{ByCategory: []string{"OO"}}, trainDef))

	require.True(t, IsValidPassengerJourney("OO", "SE"))
	require.False(t, IsValidPassengerJourney("OO", "ZZ"))
	require.False(t, IsValidPassengerJourney("EE", "SE"))
}
