package cif

// RecordIdentity is the two character tag that opens every CIF line.
type RecordIdentity string

const (
	RecordIdentityHeader               RecordIdentity = "HD"
	RecordIdentityTIPLOCInsert         RecordIdentity = "TI"
	RecordIdentityTIPLOCAmend          RecordIdentity = "TA"
	RecordIdentityAssociation          RecordIdentity = "AA"
	RecordIdentityBasicSchedule        RecordIdentity = "BS"
	RecordIdentityBasicScheduleExtra   RecordIdentity = "BX"
	RecordIdentityOriginLocation       RecordIdentity = "LO"
	RecordIdentityIntermediateLocation RecordIdentity = "LI"
	RecordIdentityTerminatingLocation  RecordIdentity = "LT"
	RecordIdentityChangesEnRoute       RecordIdentity = "CR"
	RecordIdentityTrailer              RecordIdentity = "ZZ"
)

const (
	RecordLength  = 80
	LineLength    = RecordLength + 1
	PayloadLength = RecordLength - 2
)

// Record is one decoded CIF line. The set of implementations is closed: it is
// exactly the eleven record types of this package.
type Record interface {
	Identity() RecordIdentity
	isRecord()
}

type TransactionType string

const (
	TransactionTypeNew    TransactionType = "N"
	TransactionTypeDelete TransactionType = "D"
	TransactionTypeRevise TransactionType = "R"
)

type STPIndicator string

const (
	STPIndicatorCancellation STPIndicator = "C"
	STPIndicatorNew          STPIndicator = "N"
	STPIndicatorOverlay      STPIndicator = "O"
	STPIndicatorPermanent    STPIndicator = "P"
)

type UpdateIndicator string

const (
	UpdateIndicatorFull   UpdateIndicator = "F"
	UpdateIndicatorUpdate UpdateIndicator = "U"
)

type Header struct {
	FileMainframeIdentity string          `groups:"basic"`
	ExtractDate           string          `groups:"basic"`
	ExtractTime           string          `groups:"basic"`
	CurrentFileRef        string          `groups:"basic"`
	LastFileRef           string          `groups:"basic"`
	UpdateIndicator       UpdateIndicator `groups:"basic"`
	Version               string          `groups:"basic"`
	UserStartDate         string          `groups:"basic"`
	UserEndDate           string          `groups:"basic"`
}

type TIPLOCInsert struct {
	TIPLOC               TIPLOC `groups:"basic"`
	NationalLocationCode string `groups:"basic"`
	NLCCheckCharacter    string `groups:"detailed"`
	TPSDescription       string `groups:"basic"`
	STANOX               string `groups:"basic"`
	CRSCode              string `groups:"basic"`
	NLCDescription       string `groups:"detailed"`
}

type TIPLOCAmend struct {
	TIPLOCInsert `bson:",inline" groups:"basic,detailed"`

	NewTIPLOC TIPLOC `groups:"basic"`
}

// Association carries the undecoded 78 byte payload of an AA record.
type Association struct {
	Payload string `groups:"basic"`
}

type BasicSchedule struct {
	TransactionType          TransactionType `groups:"basic"`
	TrainUID                 string          `groups:"basic"`
	DateRunsFrom             string          `groups:"basic"`
	DateRunsTo               string          `groups:"basic"`
	DaysRun                  string          `groups:"basic"`
	BankHolidayRunning       string          `groups:"detailed"`
	TrainStatus              string          `groups:"basic"`
	TrainCategory            string          `groups:"basic"`
	TrainIdentity            string          `groups:"basic"`
	Headcode                 string          `groups:"basic"`
	CourseIndicator          string          `groups:"detailed"`
	TrainServiceCode         string          `groups:"basic"`
	PortionID                string          `groups:"detailed"`
	PowerType                string          `groups:"detailed"`
	TimingLoad               string          `groups:"detailed"`
	Speed                    string          `groups:"detailed"`
	OperatingCharacteristics string          `groups:"detailed"`
	SeatingClass             string          `groups:"detailed"`
	Sleepers                 string          `groups:"detailed"`
	Reservations             string          `groups:"detailed"`
	ConnectionIndicator      string          `groups:"detailed"`
	CateringCode             string          `groups:"detailed"`
	ServiceBranding          string          `groups:"detailed"`
	STPIndicator             STPIndicator    `groups:"basic"`
}

type BasicScheduleExtraDetails struct {
	TractionClass           string `groups:"detailed"`
	UICCode                 string `groups:"detailed"`
	ATOCCode                string `groups:"basic"`
	ApplicableTimetableCode string `groups:"detailed"`
	RetailServiceID         string `groups:"detailed"`
}

type OriginLocation struct {
	Location               TIPLOC       `groups:"basic"`
	LocationSuffix         string       `groups:"basic"`
	ScheduledDepartureTime ScheduleTime `groups:"basic"`
	PublicDepartureTime    ScheduleTime `groups:"basic"`
	Platform               string       `groups:"basic"`
	Line                   string       `groups:"detailed"`
	EngineeringAllowance   string       `groups:"detailed"`
	PathingAllowance       string       `groups:"detailed"`
	Activity               string       `groups:"basic"`
	PerformanceAllowance   string       `groups:"detailed"`
}

type IntermediateLocation struct {
	Location               TIPLOC       `groups:"basic"`
	LocationSuffix         string       `groups:"basic"`
	ScheduledArrivalTime   ScheduleTime `groups:"basic"`
	ScheduledDepartureTime ScheduleTime `groups:"basic"`
	ScheduledPass          ScheduleTime `groups:"basic"`
	PublicArrivalTime      ScheduleTime `groups:"basic"`
	PublicDepartureTime    ScheduleTime `groups:"basic"`
	Platform               string       `groups:"basic"`
	Line                   string       `groups:"detailed"`
	Path                   string       `groups:"detailed"`
	Activity               string       `groups:"basic"`
	EngineeringAllowance   string       `groups:"detailed"`
	PathingAllowance       string       `groups:"detailed"`
	PerformanceAllowance   string       `groups:"detailed"`
}

type TerminatingLocation struct {
	Location             TIPLOC `groups:"basic"`
	LocationSuffix       string `groups:"basic"`
	ScheduledArrivalTime string `groups:"basic"`
	PublicArrivalTime    string `groups:"basic"`
	Platform             string `groups:"basic"`
	Path                 string `groups:"detailed"`
	Activity             string `groups:"basic"`
}

type ChangesEnRoute struct {
	Location                 TIPLOC `groups:"basic"`
	LocationSuffix           string `groups:"basic"`
	TrainCategory            string `groups:"basic"`
	TrainIdentity            string `groups:"basic"`
	Headcode                 string `groups:"basic"`
	CourseIndicator          string `groups:"detailed"`
	TrainServiceCode         string `groups:"basic"`
	BusinessSector           string `groups:"detailed"`
	PowerType                string `groups:"detailed"`
	TimingLoad               string `groups:"detailed"`
	Speed                    string `groups:"detailed"`
	OperatingCharacteristics string `groups:"detailed"`
	TrainClass               string `groups:"detailed"`
	Sleepers                 string `groups:"detailed"`
	Reservations             string `groups:"detailed"`
	ConnectIndicator         string `groups:"detailed"`
	CateringCode             string `groups:"detailed"`
	ServiceBranding          string `groups:"detailed"`
	TractionClass            string `groups:"detailed"`
	UICCode                  string `groups:"detailed"`
	RetailServiceID          string `groups:"detailed"`
}

type Trailer struct{}

func (Header) Identity() RecordIdentity                    { return RecordIdentityHeader }
func (TIPLOCInsert) Identity() RecordIdentity              { return RecordIdentityTIPLOCInsert }
func (TIPLOCAmend) Identity() RecordIdentity               { return RecordIdentityTIPLOCAmend }
func (Association) Identity() RecordIdentity               { return RecordIdentityAssociation }
func (BasicSchedule) Identity() RecordIdentity             { return RecordIdentityBasicSchedule }
func (BasicScheduleExtraDetails) Identity() RecordIdentity { return RecordIdentityBasicScheduleExtra }
func (OriginLocation) Identity() RecordIdentity            { return RecordIdentityOriginLocation }
func (IntermediateLocation) Identity() RecordIdentity      { return RecordIdentityIntermediateLocation }
func (TerminatingLocation) Identity() RecordIdentity       { return RecordIdentityTerminatingLocation }
func (ChangesEnRoute) Identity() RecordIdentity            { return RecordIdentityChangesEnRoute }
func (Trailer) Identity() RecordIdentity                   { return RecordIdentityTrailer }

func (Header) isRecord()                    {}
func (TIPLOCInsert) isRecord()              {}
func (TIPLOCAmend) isRecord()               {}
func (Association) isRecord()               {}
func (BasicSchedule) isRecord()             {}
func (BasicScheduleExtraDetails) isRecord() {}
func (OriginLocation) isRecord()            {}
func (IntermediateLocation) isRecord()      {}
func (TerminatingLocation) isRecord()       {}
func (ChangesEnRoute) isRecord()            {}
func (Trailer) isRecord()                   {}
