package creditcontrol

import (
	"time"

	"github.com/hsdfat8/gy-dcca/avp"
)

// RequestRecord is the structured form of a parsed Credit-Control-Request
// body. Attributes absent from the dictionary land in Unknown unmodified;
// registered attributes outside the template are ignored rather than failing
// the parse.
type RequestRecord struct {
	SessionID         string
	OriginHost        string
	OriginRealm       string
	DestinationRealm  string
	DestinationHost   string
	AuthApplicationID uint32
	ServiceContextID  string
	CCRequestType     avp.EnumValue
	CCRequestNumber   uint32

	SubscriptionIDs      []SubscriptionID
	RequestedServiceUnit *ServiceUnit
	UsedServiceUnit      *ServiceUnit
	EventTimestamp       time.Time
	TerminationCause     *avp.EnumValue

	Unknown []avp.RawAVP
}

// Kind maps the parsed CC-Request-Type back onto a RequestKind. Values
// outside the declared set come back as-is; String() then reports them
// unknown.
func (r *RequestRecord) Kind() RequestKind {
	return RequestKind(r.CCRequestType.Value)
}

// AnswerRecord is the structured form of a parsed Credit-Control-Answer
// body.
type AnswerRecord struct {
	SessionID         string
	ResultCode        uint32
	OriginHost        string
	OriginRealm       string
	AuthApplicationID uint32
	CCRequestType     avp.EnumValue
	CCRequestNumber   uint32

	GrantedServiceUnit *ServiceUnit
	ValidityTime       uint32
	CostInformation    *Cost
	FinalUnit          *FinalUnit

	Unknown []avp.RawAVP
}

// Granted reports whether the answer carries a successful grant
// (DIAMETER_SUCCESS).
func (r *AnswerRecord) Granted() bool {
	return r.ResultCode == 2001
}

var requestMandatory = []string{
	"Session-Id",
	"Origin-Host",
	"Origin-Realm",
	"Destination-Realm",
	"Auth-Application-Id",
	"Service-Context-Id",
	"CC-Request-Type",
	"CC-Request-Number",
}

var answerMandatory = []string{
	"Session-Id",
	"Result-Code",
	"Origin-Host",
	"Origin-Realm",
	"Auth-Application-Id",
	"CC-Request-Type",
	"CC-Request-Number",
}

// ParseRequest disassembles a request body. Unrecognized attributes never
// fail the parse; a missing template-mandatory attribute whose definition
// carries the M-bit does.
func (e *Engine) ParseRequest(avps []*avp.AVP) (*RequestRecord, error) {
	r := &RequestRecord{}
	seen := map[string]bool{}

	for _, a := range avps {
		if !a.Known() {
			r.Unknown = append(r.Unknown, a.ToRaw())
			continue
		}
		seen[a.Def.Name] = true
		v := avp.Logical(a)
		switch a.Def.Name {
		case "Session-Id":
			r.SessionID, _ = v.(string)
		case "Origin-Host":
			r.OriginHost, _ = v.(string)
		case "Origin-Realm":
			r.OriginRealm, _ = v.(string)
		case "Destination-Realm":
			r.DestinationRealm, _ = v.(string)
		case "Destination-Host":
			r.DestinationHost, _ = v.(string)
		case "Auth-Application-Id":
			r.AuthApplicationID, _ = v.(uint32)
		case "Service-Context-Id":
			r.ServiceContextID, _ = v.(string)
		case "CC-Request-Type":
			r.CCRequestType, _ = v.(avp.EnumValue)
		case "CC-Request-Number":
			r.CCRequestNumber, _ = v.(uint32)
		case "Event-Timestamp":
			r.EventTimestamp, _ = v.(time.Time)
		case "Subscription-Id":
			if m, ok := v.(map[string]any); ok {
				r.SubscriptionIDs = append(r.SubscriptionIDs, parseSubscriptionID(m))
			}
		case "Requested-Service-Unit":
			if m, ok := v.(map[string]any); ok {
				r.RequestedServiceUnit = parseServiceUnit(m)
			}
		case "Used-Service-Unit":
			if m, ok := v.(map[string]any); ok {
				r.UsedServiceUnit = parseServiceUnit(m)
			}
		case "Termination-Cause":
			if ev, ok := v.(avp.EnumValue); ok {
				r.TerminationCause = &ev
			}
		}
	}

	if err := e.checkMandatory(seen, requestMandatory); err != nil {
		return nil, err
	}
	return r, nil
}

// ParseAnswer disassembles an answer body.
func (e *Engine) ParseAnswer(avps []*avp.AVP) (*AnswerRecord, error) {
	r := &AnswerRecord{}
	seen := map[string]bool{}

	for _, a := range avps {
		if !a.Known() {
			r.Unknown = append(r.Unknown, a.ToRaw())
			continue
		}
		seen[a.Def.Name] = true
		v := avp.Logical(a)
		switch a.Def.Name {
		case "Session-Id":
			r.SessionID, _ = v.(string)
		case "Result-Code":
			r.ResultCode, _ = v.(uint32)
		case "Origin-Host":
			r.OriginHost, _ = v.(string)
		case "Origin-Realm":
			r.OriginRealm, _ = v.(string)
		case "Auth-Application-Id":
			r.AuthApplicationID, _ = v.(uint32)
		case "CC-Request-Type":
			r.CCRequestType, _ = v.(avp.EnumValue)
		case "CC-Request-Number":
			r.CCRequestNumber, _ = v.(uint32)
		case "Validity-Time":
			r.ValidityTime, _ = v.(uint32)
		case "Granted-Service-Unit":
			if m, ok := v.(map[string]any); ok {
				r.GrantedServiceUnit = parseServiceUnit(m)
			}
		case "Cost-Information":
			if m, ok := v.(map[string]any); ok {
				r.CostInformation = parseCost(m)
			}
		case "Final-Unit-Indication":
			if m, ok := v.(map[string]any); ok {
				r.FinalUnit = parseFinalUnit(m)
			}
		}
	}

	if err := e.checkMandatory(seen, answerMandatory); err != nil {
		return nil, err
	}
	return r, nil
}

// checkMandatory enforces the template for names whose dictionary
// definition carries the M-bit.
func (e *Engine) checkMandatory(seen map[string]bool, names []string) error {
	for _, name := range names {
		if seen[name] {
			continue
		}
		def, ok := e.reg.ByName(name)
		if !ok || !def.Must {
			continue
		}
		return ErrMissingMandatoryAttribute{Name: def.Name, Code: def.Code}
	}
	return nil
}

func parseSubscriptionID(m map[string]any) SubscriptionID {
	var sub SubscriptionID
	if ev, ok := m["Subscription-Id-Type"].(avp.EnumValue); ok {
		sub.Type = ev.String()
	}
	if s, ok := m["Subscription-Id-Data"].(string); ok {
		sub.Data = s
	}
	return sub
}

func parseServiceUnit(m map[string]any) *ServiceUnit {
	u := &ServiceUnit{}
	if v, ok := m["CC-Time"].(uint32); ok {
		u.CCTime = &v
	}
	if v, ok := m["CC-Total-Octets"].(uint64); ok {
		u.CCTotalOctets = &v
	}
	if v, ok := m["CC-Input-Octets"].(uint64); ok {
		u.CCInputOctets = &v
	}
	if v, ok := m["CC-Output-Octets"].(uint64); ok {
		u.CCOutputOctets = &v
	}
	if v, ok := m["CC-Service-Specific-Units"].(uint64); ok {
		u.CCServiceSpecificUnits = &v
	}
	return u
}

func parseCost(m map[string]any) *Cost {
	c := &Cost{}
	if uv, ok := m["Unit-Value"].(map[string]any); ok {
		c.ValueDigits, _ = uv["Value-Digits"].(int64)
		c.Exponent, _ = uv["Exponent"].(int32)
	}
	c.CurrencyCode, _ = m["Currency-Code"].(uint32)
	c.CostUnit, _ = m["Cost-Unit"].(string)
	return c
}

func parseFinalUnit(m map[string]any) *FinalUnit {
	f := &FinalUnit{}
	if ev, ok := m["Final-Unit-Action"].(avp.EnumValue); ok {
		f.Action = ev.String()
	}
	switch ids := m["Filter-Id"].(type) {
	case string:
		f.FilterIDs = []string{ids}
	case []any:
		for _, id := range ids {
			if s, ok := id.(string); ok {
				f.FilterIDs = append(f.FilterIDs, s)
			}
		}
	}
	return f
}
