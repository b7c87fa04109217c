package http

import (
	"encoding/json"
	"errors"

	"github.com/vovakirdan/pairchat-server/internal/core"
	"github.com/vovakirdan/pairchat-server/internal/proto"
)

var errMissingData = errors.New("missing data")

func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error) {
	switch inbound.Type {
	case proto.InboundTypeJoin:
		var join proto.JoinData
		if err := decodeData(inbound.Data, &join); err != nil {
			return nil, &proto.Error{Code: proto.ErrCodeBadRequest, Reason: "invalid join payload"}
		}
		return &core.Command{Kind: core.CommandJoin, Name: join.DisplayName}, nil
	case proto.InboundTypeMessage:
		var msg proto.MessageData
		if err := decodeData(inbound.Data, &msg); err != nil {
			return nil, &proto.Error{Code: proto.ErrCodeBadRequest, Reason: "invalid message payload"}
		}
		return &core.Command{Kind: core.CommandSendMessage, Text: msg.Text}, nil
	case proto.InboundTypeTyping:
		return &core.Command{Kind: core.CommandTyping}, nil
	case proto.InboundTypeStopTyping:
		return &core.Command{Kind: core.CommandStopTyping}, nil
	default:
		return nil, &proto.Error{Code: proto.ErrCodeInvalidMessage, Reason: "unknown message type"}
	}
}

func decodeData(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return errMissingData
	}
	return json.Unmarshal(raw, v)
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventUserJoined:
		return eventOutbound(proto.EventUserJoined, proto.EventUser{DisplayName: event.User})
	case core.EventUserLeft:
		return eventOutbound(proto.EventUserLeft, proto.EventUser{DisplayName: event.User})
	case core.EventRosterChanged:
		names := event.Names
		if names == nil {
			names = []string{}
		}
		return eventOutbound(proto.EventRosterChanged, proto.EventRoster{Names: names})
	case core.EventChatMessage:
		return eventOutbound(proto.EventChatMessage, proto.EventChat{
			ID:         event.Message.ID,
			SenderName: event.Message.From,
			Text:       event.Message.Text,
			Timestamp:  event.Message.CreatedAt,
		})
	case core.EventTypingChanged:
		return eventOutbound(proto.EventTypingChanged, proto.EventTyping{
			DisplayName: event.User,
			IsTyping:    event.Typing,
		})
	case core.EventSystemMessage:
		return eventOutbound(proto.EventSystemMessage, proto.EventSystem{
			Text:      event.Text,
			Timestamp: event.At,
		})
	case core.EventError:
		if event.Error == nil {
			return errorOutbound(&proto.Error{Code: "unknown", Reason: "unknown error"})
		}
		return errorOutbound(&proto.Error{Code: event.Error.Code, Reason: event.Error.Message})
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}

func eventOutbound(name string, data any) proto.Outbound {
	return proto.Outbound{Type: proto.OutboundTypeEvent, Event: name, Data: data}
}

func errorOutbound(err *proto.Error) proto.Outbound {
	return proto.Outbound{Type: proto.OutboundTypeError, Error: err}
}
