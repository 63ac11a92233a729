package websocket

import (
	"context"

	"github.com/KirkDiggler/zonk/internal/models"
	"github.com/KirkDiggler/zonk/internal/services/game"
	"github.com/KirkDiggler/zonk/internal/services/messaging"
)

// Inbound message types
const (
	TypeCreateRoom = "create_room"
	TypeJoinRoom   = "join_room"
	TypeStartGame  = "start_game"
	TypeRollDice   = "roll_dice"
	TypeToggleHold = "toggle_hold"
	TypeBankPoints = "bank_points"
	TypeLeaveRoom  = "leave_room"
	TypeChat       = "chat"
	TypeGetRoom    = "get_room"
)

// Inbound is a client request. Fields not used by a type are ignored.
type Inbound struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId,omitempty"`
	Name   string `json:"name,omitempty"`

	// Index is required for toggle_hold
	Index *int `json:"index,omitempty"`

	Text string `json:"text,omitempty"`
}

// dispatch routes one inbound message to the game service. State changes
// reach clients through the hub; only get_room answers directly.
func (h *Handler) dispatch(ctx context.Context, connID string, in *Inbound) error {
	switch in.Type {
	case TypeCreateRoom:
		_, err := h.gameService.CreateRoom(ctx, &game.CreateRoomInput{
			ConnID:     connID,
			PlayerName: in.Name,
		})
		return err

	case TypeJoinRoom:
		_, err := h.gameService.JoinRoom(ctx, &game.JoinRoomInput{
			ConnID:     connID,
			RoomID:     in.RoomID,
			PlayerName: in.Name,
		})
		return err

	case TypeStartGame:
		_, err := h.gameService.StartGame(ctx, &game.StartGameInput{
			ConnID: connID,
			RoomID: in.RoomID,
		})
		return err

	case TypeRollDice:
		_, err := h.gameService.RollDice(ctx, &game.RollDiceInput{
			ConnID: connID,
			RoomID: in.RoomID,
		})
		return err

	case TypeToggleHold:
		if in.Index == nil {
			return game.ErrInvalidInput
		}
		_, err := h.gameService.ToggleHold(ctx, &game.ToggleHoldInput{
			ConnID: connID,
			RoomID: in.RoomID,
			Index:  *in.Index,
		})
		return err

	case TypeBankPoints:
		_, err := h.gameService.BankPoints(ctx, &game.BankPointsInput{
			ConnID: connID,
			RoomID: in.RoomID,
		})
		return err

	case TypeLeaveRoom:
		_, err := h.gameService.LeaveRoom(ctx, &game.LeaveRoomInput{
			ConnID: connID,
			RoomID: in.RoomID,
		})
		return err

	case TypeChat:
		_, err := h.gameService.SendChat(ctx, &game.SendChatInput{
			ConnID: connID,
			RoomID: in.RoomID,
			Text:   in.Text,
		})
		return err

	case TypeGetRoom:
		g, err := h.gameService.GetRoom(ctx, &game.GetRoomInput{
			RoomID: in.RoomID,
		})
		if err != nil {
			return err
		}
		h.hub.Send(connID, &models.Message{
			Type:    models.MessageState,
			RoomID:  g.RoomID,
			Payload: g,
		})
		return nil

	default:
		return game.ErrInvalidInput
	}
}

// sendError tells only the originating connection what went wrong
func (h *Handler) sendError(ctx context.Context, connID, roomID string, err error) {
	code := game.ErrorCode(err)

	if game.IsClientError(err) {
		h.log.Debug().Err(err).Str("conn_id", connID).Str("room_id", roomID).Str("code", code).Msg("request rejected")
	} else {
		h.log.Error().Err(err).Str("conn_id", connID).Str("room_id", roomID).Msg("request failed")
	}

	h.hub.Send(connID, &models.Message{
		Type:   models.MessageError,
		RoomID: roomID,
		Payload: &models.ErrorPayload{
			Code:    code,
			Message: h.errorText(ctx, code, err),
		},
	})
}

func (h *Handler) errorText(ctx context.Context, code string, err error) string {
	if h.messenger != nil {
		out, msgErr := h.messenger.GetErrorMessage(ctx, &messaging.GetErrorMessageInput{Code: code})
		if msgErr == nil && out.Message != "" {
			return out.Message
		}
	}

	// internal details stay in the logs
	if code == game.CodeInternal {
		return "internal error"
	}
	return err.Error()
}
