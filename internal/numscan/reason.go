package numscan

// Reason explains why a token was rejected. ReasonNone means accepted.
type Reason string

const (
	ReasonNone           Reason = ""
	ReasonNoDigit        Reason = "no-digit"
	ReasonLetter         Reason = "letter"
	ReasonDisqualifier   Reason = "disqualifier"
	ReasonMultipleMinus  Reason = "multiple-minus"
	ReasonMultiplePoints Reason = "multiple-points"
	ReasonTrailingDash   Reason = "trailing-dash"
	ReasonExponentDash   Reason = "exponent-dash"
	ReasonBadGrouping    Reason = "bad-grouping"
	ReasonPrecision      Reason = "precision"
	ReasonMalformed      Reason = "malformed"
	ReasonOverflow       Reason = "overflow"
)

// Reasons lists every rejection reason in pipeline order.
var Reasons = []Reason{
	ReasonNoDigit,
	ReasonLetter,
	ReasonDisqualifier,
	ReasonMultipleMinus,
	ReasonMultiplePoints,
	ReasonTrailingDash,
	ReasonExponentDash,
	ReasonBadGrouping,
	ReasonPrecision,
	ReasonMalformed,
	ReasonOverflow,
}

// Stage names the pipeline step that produced a Result.
type Stage string

const (
	StageClassify   Stage = "classify"
	StageSign       Stage = "sign"
	StageDashFill   Stage = "dash-fill"
	StageGrouping   Stage = "grouping"
	StagePrecision  Stage = "precision"
	StageConvert    Stage = "convert"
	StageAccumulate Stage = "accumulate"
)
