package enum

type DomainStatus string

const (
	DomainStatusActive        DomainStatus = "active"
	DomainStatusGrace         DomainStatus = "grace"
	DomainStatusRedemption    DomainStatus = "redemption"
	DomainStatusPendingDelete DomainStatus = "pending_delete"
	DomainStatusDropped       DomainStatus = "dropped"
)

func (t DomainStatus) String() string {
	return string(t)
}

func GetDomainStatus(s string) DomainStatus {
	return DomainStatus(s)
}

type QualityTier string

const (
	QualityTierPremium QualityTier = "premium"
	QualityTierGood    QualityTier = "good"
	QualityTierAverage QualityTier = "average"
)

func (t QualityTier) String() string {
	return string(t)
}

type Verdict string

const (
	VerdictConfirmed Verdict = "confirmed"
	VerdictRejected  Verdict = "rejected"
)

func (t Verdict) String() string {
	return string(t)
}
