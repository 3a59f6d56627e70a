package creditcontrol

import (
	"github.com/hsdfat8/gy-dcca/avp"
)

// BuildRequest assembles the ordered attribute sequence of a
// Credit-Control-Request body. Initial requests always carry request number
// 0; for Update, Terminate and Event the caller's number is used as-is, with
// no monotonicity tracking across calls.
func (e *Engine) BuildRequest(kind RequestKind, f RequestFields) ([]*avp.AVP, error) {
	switch {
	case f.SessionID == "":
		return nil, ErrMissingMandatoryField{Field: "session_id"}
	case f.OriginHost == "":
		return nil, ErrMissingMandatoryField{Field: "origin_host"}
	case f.OriginRealm == "":
		return nil, ErrMissingMandatoryField{Field: "origin_realm"}
	case f.DestinationRealm == "":
		return nil, ErrMissingMandatoryField{Field: "destination_realm"}
	case f.ServiceContextID == "":
		return nil, ErrMissingMandatoryField{Field: "service_context_id"}
	}

	number := f.CCRequestNumber
	if kind == Initial {
		number = 0
	}

	b := &bodyBuilder{engine: e}
	b.add("Session-Id", f.SessionID)
	b.add("Origin-Host", f.OriginHost)
	b.add("Origin-Realm", f.OriginRealm)
	b.add("Destination-Realm", f.DestinationRealm)
	if f.DestinationHost != "" {
		b.add("Destination-Host", f.DestinationHost)
	}
	b.add("Auth-Application-Id", uint32(AppID))
	b.add("Service-Context-Id", f.ServiceContextID)
	b.add("CC-Request-Type", kind.String())
	b.add("CC-Request-Number", number)
	if !f.EventTimestamp.IsZero() {
		b.add("Event-Timestamp", f.EventTimestamp)
	}
	for _, sub := range f.SubscriptionIDs {
		b.group("Subscription-Id", []avp.Member{
			{Name: "Subscription-Id-Type", Value: sub.Type},
			{Name: "Subscription-Id-Data", Value: sub.Data},
		})
	}
	if f.RequestedServiceUnit != nil {
		b.group("Requested-Service-Unit", serviceUnitMembers(f.RequestedServiceUnit))
	}
	if f.UsedServiceUnit != nil {
		b.group("Used-Service-Unit", serviceUnitMembers(f.UsedServiceUnit))
	}
	if f.TerminationCause != "" {
		b.add("Termination-Cause", f.TerminationCause)
	}
	return b.done()
}

// BuildAnswer assembles the ordered attribute sequence of a
// Credit-Control-Answer body, including the quota grant groups.
func (e *Engine) BuildAnswer(f AnswerFields) ([]*avp.AVP, error) {
	switch {
	case f.SessionID == "":
		return nil, ErrMissingMandatoryField{Field: "session_id"}
	case f.OriginHost == "":
		return nil, ErrMissingMandatoryField{Field: "origin_host"}
	case f.OriginRealm == "":
		return nil, ErrMissingMandatoryField{Field: "origin_realm"}
	case f.ResultCode == 0:
		return nil, ErrMissingMandatoryField{Field: "result_code"}
	}

	b := &bodyBuilder{engine: e}
	b.add("Session-Id", f.SessionID)
	b.add("Result-Code", f.ResultCode)
	b.add("Origin-Host", f.OriginHost)
	b.add("Origin-Realm", f.OriginRealm)
	b.add("Auth-Application-Id", uint32(AppID))
	b.add("CC-Request-Type", f.CCRequestType.String())
	b.add("CC-Request-Number", f.CCRequestNumber)
	if f.GrantedServiceUnit != nil {
		b.group("Granted-Service-Unit", serviceUnitMembers(f.GrantedServiceUnit))
	}
	if f.ValidityTime != 0 {
		b.add("Validity-Time", f.ValidityTime)
	}
	if f.CostInformation != nil {
		members := []avp.Member{
			{Name: "Unit-Value", Value: []avp.Member{
				{Name: "Value-Digits", Value: f.CostInformation.ValueDigits},
				{Name: "Exponent", Value: f.CostInformation.Exponent},
			}},
			{Name: "Currency-Code", Value: f.CostInformation.CurrencyCode},
		}
		if f.CostInformation.CostUnit != "" {
			members = append(members, avp.Member{Name: "Cost-Unit", Value: f.CostInformation.CostUnit})
		}
		b.group("Cost-Information", members)
	}
	if f.FinalUnit != nil {
		members := []avp.Member{
			{Name: "Final-Unit-Action", Value: f.FinalUnit.Action},
		}
		for _, id := range f.FinalUnit.FilterIDs {
			members = append(members, avp.Member{Name: "Filter-Id", Value: id})
		}
		b.group("Final-Unit-Indication", members)
	}
	return b.done()
}

// bodyBuilder accumulates attributes in template order and carries the
// first encode error to the end, so build sites stay flat.
type bodyBuilder struct {
	engine *Engine
	avps   []*avp.AVP
	err    error
}

func (b *bodyBuilder) add(name string, value any) {
	if b.err != nil {
		return
	}
	a, err := avp.Encode(b.engine.reg, name, value)
	if err != nil {
		b.err = err
		return
	}
	b.avps = append(b.avps, a)
}

func (b *bodyBuilder) group(name string, members []avp.Member) {
	b.add(name, members)
}

func (b *bodyBuilder) done() ([]*avp.AVP, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.avps, nil
}

func serviceUnitMembers(u *ServiceUnit) []avp.Member {
	var members []avp.Member
	if u.CCTime != nil {
		members = append(members, avp.Member{Name: "CC-Time", Value: *u.CCTime})
	}
	if u.CCTotalOctets != nil {
		members = append(members, avp.Member{Name: "CC-Total-Octets", Value: *u.CCTotalOctets})
	}
	if u.CCInputOctets != nil {
		members = append(members, avp.Member{Name: "CC-Input-Octets", Value: *u.CCInputOctets})
	}
	if u.CCOutputOctets != nil {
		members = append(members, avp.Member{Name: "CC-Output-Octets", Value: *u.CCOutputOctets})
	}
	if u.CCServiceSpecificUnits != nil {
		members = append(members, avp.Member{Name: "CC-Service-Specific-Units", Value: *u.CCServiceSpecificUnits})
	}
	return members
}
