package domain

const (
	RoleMember = "MEMBER"
	RoleStaff  = "STAFF"
	RoleAdmin  = "ADMIN"
)

// Ledger transaction kinds. Amounts are signed drops; earn kinds are
// positive, SPEND_REDEMPTION is negative, REFUND reverses a spend.
const (
	TxKindEarnSession     = "EARN_SESSION"
	TxKindEarnChallenge   = "EARN_CHALLENGE"
	TxKindSpendRedemption = "SPEND_REDEMPTION"
	TxKindRefund          = "REFUND"
)

const (
	RedemptionPending   = "PENDING"
	RedemptionConfirmed = "CONFIRMED"
	RedemptionCancelled = "CANCELLED"
)

const (
	CadenceDaily   = "DAILY"
	CadenceWeekly  = "WEEKLY"
	CadenceStreak  = "STREAK"
	CadenceOneTime = "ONE_TIME"
)

// MachineTypeAny on a challenge matches every machine type.
const MachineTypeAny = "ANY"

const (
	MachineTypeTreadmill  = "TREADMILL"
	MachineTypeBike       = "BIKE"
	MachineTypeRower      = "ROWER"
	MachineTypeElliptical = "ELLIPTICAL"
	MachineTypeFreeWeight = "FREE_WEIGHT"
)

const (
	NotifChallengeCompleted  = "CHALLENGE_COMPLETED"
	NotifRedemptionConfirmed = "REDEMPTION_CONFIRMED"
	NotifRedemptionCancelled = "REDEMPTION_CANCELLED"
)
