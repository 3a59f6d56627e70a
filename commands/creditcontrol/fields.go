package creditcontrol

import "time"

// SubscriptionID identifies the charged subscriber. Type is the enumerated
// symbol, e.g. END_USER_E164 or END_USER_IMSI.
type SubscriptionID struct {
	Type string
	Data string
}

// ServiceUnit is a requested, used or granted quota group. Nil pointers mark
// absent members.
type ServiceUnit struct {
	CCTime                 *uint32
	CCTotalOctets          *uint64
	CCInputOctets          *uint64
	CCOutputOctets         *uint64
	CCServiceSpecificUnits *uint64
}

// Cost is the Cost-Information group: ValueDigits scaled by 10^Exponent in
// CurrencyCode (ISO 4217 numeric).
type Cost struct {
	ValueDigits  int64
	Exponent     int32
	CurrencyCode uint32
	CostUnit     string
}

// FinalUnit is the Final-Unit-Indication group announced with the last
// granted quota.
type FinalUnit struct {
	Action    string
	FilterIDs []string
}

// RequestFields supplies the values a built request is assembled from.
// SessionID, OriginHost, OriginRealm, DestinationRealm and ServiceContextID
// are mandatory for every kind; the rest are kind-specific or optional.
type RequestFields struct {
	SessionID        string
	OriginHost       string
	OriginRealm      string
	DestinationRealm string
	DestinationHost  string
	ServiceContextID string

	// CCRequestNumber is ignored for Initial requests, which always carry 0.
	CCRequestNumber uint32

	SubscriptionIDs      []SubscriptionID
	RequestedServiceUnit *ServiceUnit
	UsedServiceUnit      *ServiceUnit
	EventTimestamp       time.Time
	TerminationCause     string
}

// AnswerFields supplies the values a built answer is assembled from.
type AnswerFields struct {
	SessionID       string
	OriginHost      string
	OriginRealm     string
	ResultCode      uint32
	CCRequestType   RequestKind
	CCRequestNumber uint32

	GrantedServiceUnit *ServiceUnit
	ValidityTime       uint32
	CostInformation    *Cost
	FinalUnit          *FinalUnit
}
