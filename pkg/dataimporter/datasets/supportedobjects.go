package datasets

type SupportedObjects struct {
	TIPLOCs          bool
	Associations     bool
	TrainDefinitions bool
}
