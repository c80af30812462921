package notify

import "kudosnotify/internal/types"

// Kind discriminates the notification request union. Each kind carries
// the minimal identifiers needed to resolve its entities.
type Kind string

const (
	// KindKudos emails the receiver of a kudos. Requires KudosID.
	KindKudos Kind = "kudos"
	// KindRewardStatus emails a claimant about their reward resolution.
	// Requires UserID and Status; AdminNotes is optional.
	KindRewardStatus Kind = "reward_status"
	// KindAdminClaim fans out a claim alert to the reward's company
	// admins. Requires RewardID and UserID.
	KindAdminClaim Kind = "admin_claim"
	// KindGeneric emails an explicit address with a templated body
	// selected by EmailType. Requires To and EmailType; when EmailType is
	// EmailTypeRewardStatus and both RewardID and UserID are present, a
	// chained admin-claim notification follows a successful send.
	KindGeneric Kind = "generic"
)

// Email types accepted by the generic notification kinds.
const (
	EmailTypeKudos        = "kudos"
	EmailTypeRewardStatus = "reward_status"
)

// StatusConfirmed is the reward status value that reads as "approved";
// any other value reads as "declined".
const StatusConfirmed = "confirmed"

// Request is the discriminated input to the orchestrator. Exactly the
// fields relevant to Kind are consulted; the rest are ignored.
type Request struct {
	Kind Kind

	KudosID    string
	UserID     string
	Status     string
	AdminNotes string
	RewardID   string
	To         string
	EmailType  string
}

// Result reports the outcome of a completed orchestration.
type Result struct {
	// Receipt is the provider's acknowledgment of the primary send. It is
	// nil for fan-out orchestrations, which may perform zero or many
	// sends.
	Receipt *types.ProviderReceipt
	// Sent is the number of emails accepted by the provider.
	Sent int
}
