package cif

import (
	"github.com/travigo/cifparser/pkg/dataimporter/datasets"
	"github.com/travigo/cifparser/pkg/util"
)

func IsValidPassengerJourney(category string, atoc string) bool {
	// ATOC LT - London Underground
	// ATOC ZZ - Obfusucated
	return !util.ContainsString([]string{"LT", "ZZ", ""}, atoc) && util.ContainsString([]string{
		"OO", "OW",
		"XC", "XD", "XI", "XR", "XX", "XZ",
		"BR",
	}, category)
}

func ignored(ignore datasets.IgnoreObjectTrainDefinition, trainDef *TrainDefinitionSet) bool {
	return util.ContainsString(ignore.ByOperator, trainDef.BasicScheduleExtraDetails.ATOCCode) ||
		util.ContainsString(ignore.ByCategory, trainDef.BasicSchedule.TrainCategory)
}
