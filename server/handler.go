package server

import (
	"errors"

	"github.com/hsdfat8/gy-dcca/avp"
	"github.com/hsdfat8/gy-dcca/commands/creditcontrol"
	"github.com/hsdfat8/gy-dcca/pkg/logger"
	"github.com/hsdfat8/gy-dcca/pkg/metrics"
	"github.com/hsdfat8/gy-dcca/transport"
)

// handleMessage answers one inbound message. Non-request or non-CC commands
// are answered with a protocol error rather than dropped; a nil return means
// nothing should be written back.
func (s *OCS) handleMessage(msg *transport.Message) *transport.Message {
	if !msg.Header.IsRequest() {
		logger.Log.Debugw("Ignoring inbound answer", "header", msg.Header.String())
		return nil
	}
	if msg.Header.CommandCode != creditcontrol.CommandCode {
		logger.Log.Warnw("Unsupported command", "header", msg.Header.String())
		return s.errorAnswer(msg, "", transport.ResultCodeCommandUnsupported, creditcontrol.Initial, 0)
	}

	avps, err := avp.FromRawAll(s.registry, msg.AVPs)
	if err != nil {
		logger.Log.Warnw("Failed to decode request AVPs", "error", err)
		s.metrics.Increment(metrics.ParseErrors)
		return s.errorAnswer(msg, "", transport.ResultCodeUnableToComply, creditcontrol.Initial, 0)
	}

	rec, err := s.engine.ParseRequest(avps)
	if err != nil {
		s.metrics.Increment(metrics.ParseErrors)
		var missing creditcontrol.ErrMissingMandatoryAttribute
		if errors.As(err, &missing) {
			logger.Log.Warnw("Request missing mandatory attribute",
				"attribute", missing.Name, "code", missing.Code)
			return s.errorAnswer(msg, "", transport.ResultCodeMissingAVP, creditcontrol.Initial, 0)
		}
		logger.Log.Warnw("Failed to parse request", "error", err)
		return s.errorAnswer(msg, "", transport.ResultCodeUnableToComply, creditcontrol.Initial, 0)
	}

	kind := rec.Kind()
	s.metrics.Increment(metrics.RequestCounterName(rec.CCRequestType.Value))
	logger.Log.Infow("CCR received",
		"session_id", rec.SessionID,
		"cc_request_type", rec.CCRequestType.String(),
		"cc_request_number", rec.CCRequestNumber)

	fields := creditcontrol.AnswerFields{
		SessionID:       rec.SessionID,
		OriginHost:      s.cfg.Server.OriginHost,
		OriginRealm:     s.cfg.Server.OriginRealm,
		ResultCode:      uint32(transport.ResultCodeSuccess),
		CCRequestType:   kind,
		CCRequestNumber: rec.CCRequestNumber,
	}

	// Terminations close the session; no fresh quota.
	if kind == creditcontrol.Initial || kind == creditcontrol.Update {
		grant := &creditcontrol.ServiceUnit{}
		if t := s.cfg.Quota.GrantedCCTime; t > 0 {
			grant.CCTime = &t
		}
		if o := s.cfg.Quota.GrantedCCTotalOctets; o > 0 {
			grant.CCTotalOctets = &o
		}
		fields.GrantedServiceUnit = grant
		fields.ValidityTime = s.cfg.Quota.ValidityTime
	}

	ansAVPs, err := s.engine.BuildAnswer(fields)
	if err != nil {
		logger.Log.Errorw("Failed to build answer", "error", err)
		s.metrics.Increment(metrics.BuildErrors)
		return nil
	}

	answer := transport.NewAnswer(msg)
	answer.SetBody(ansAVPs)
	return answer
}

// errorAnswer builds a minimal failure answer mirroring the request header.
func (s *OCS) errorAnswer(req *transport.Message, sessionID string, code transport.ResultCode, kind creditcontrol.RequestKind, number uint32) *transport.Message {
	if sessionID == "" {
		sessionID = s.cfg.Server.OriginHost + ";0;0"
	}
	avps, err := s.engine.BuildAnswer(creditcontrol.AnswerFields{
		SessionID:       sessionID,
		OriginHost:      s.cfg.Server.OriginHost,
		OriginRealm:     s.cfg.Server.OriginRealm,
		ResultCode:      uint32(code),
		CCRequestType:   kind,
		CCRequestNumber: number,
	})
	if err != nil {
		logger.Log.Errorw("Failed to build error answer", "error", err)
		s.metrics.Increment(metrics.BuildErrors)
		return nil
	}
	answer := transport.NewAnswer(req)
	answer.Header.Flags |= transport.FlagError
	answer.SetBody(avps)
	return answer
}
