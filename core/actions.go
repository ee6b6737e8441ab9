package core

import (
	"fmt"
	"strconv"
	"strings"

	"pkt.systems/gamelaunch/schema"
)

// actionKind enumerates every verb a menu item can bind. Dispatch is an
// exhaustive switch over this enum rather than a string-keyed table.
type actionKind int

const (
	actionLogin actionKind = iota
	actionRegister
	actionGame
	actionPlay
	actionWatch
	actionEdit
	actionChangePass
	actionChangeEmail
	actionQuit
)

// action is a parsed menu command with its typed payload.
type action struct {
	kind  actionKind
	index int
	path  string
}

// parseAction splits a rendered command into verb plus arguments and
// builds the tagged action.
func parseAction(command string) (action, error) {
	parts := strings.Fields(command)
	if len(parts) == 0 {
		return action{}, schema.ErrUnknownAction
	}
	verb, args := parts[0], parts[1:]
	switch verb {
	case "login":
		return action{kind: actionLogin}, nil
	case "register":
		return action{kind: actionRegister}, nil
	case "game", "play":
		if len(args) != 1 {
			return action{}, fmt.Errorf("%w: %s needs a game index", schema.ErrUnknownAction, verb)
		}
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return action{}, fmt.Errorf("%w: bad game index %q", schema.ErrUnknownAction, args[0])
		}
		kind := actionGame
		if verb == "play" {
			kind = actionPlay
		}
		return action{kind: kind, index: index}, nil
	case "watch":
		return action{kind: actionWatch}, nil
	case "edit":
		if len(args) != 1 {
			return action{}, fmt.Errorf("%w: edit needs a path", schema.ErrUnknownAction)
		}
		return action{kind: actionEdit, path: args[0]}, nil
	case "changepass":
		return action{kind: actionChangePass}, nil
	case "changeemail":
		return action{kind: actionChangeEmail}, nil
	case "quit":
		return action{kind: actionQuit}, nil
	default:
		return action{}, fmt.Errorf("%w: %s", schema.ErrUnknownAction, verb)
	}
}

// runChoice renders the action template with the frame's bound args and
// executes the resulting command. Every handler error is converted to a
// status line here; nothing below this boundary crashes the loop.
func runChoice(s *Session, actionTemplate string, args map[string]any) Effect {
	command, err := s.RenderTemplate(actionTemplate, args)
	if err != nil {
		s.log().Warn("action template failed", "template", actionTemplate, "err", err)
		s.Status("Broken menu action")
		return None()
	}
	act, err := parseAction(command)
	if err != nil {
		s.log().Warn("action rejected", "command", command, "err", err)
		s.Status("Unknown action")
		return None()
	}

	switch act.kind {
	case actionLogin:
		return Push(loginChain())
	case actionRegister:
		return Push(registerChain())
	case actionGame:
		game, ok := s.gameByIndex(act.index)
		if !ok {
			s.Status("Unknown game")
			return None()
		}
		return Push(NewMenuFrame(s, game.Menu, map[string]any{"game": game}))
	case actionPlay:
		s.play(act.index)
		return None()
	case actionWatch:
		return Push(NewWatchFrame(s))
	case actionEdit:
		s.editOptions(act.path)
		return None()
	case actionChangePass:
		if _, ok := s.User(); !ok {
			s.Status("You are not logged in")
			return None()
		}
		return Push(changePasswordChain())
	case actionChangeEmail:
		if _, ok := s.User(); !ok {
			s.Status("You are not logged in")
			return None()
		}
		return Push(changeEmailChain())
	case actionQuit:
		return Pop()
	default:
		return None()
	}
}

func (s *Session) gameByIndex(index int) (schema.GameDefinition, bool) {
	games := s.Games()
	if index < 0 || index >= len(games) {
		return schema.GameDefinition{}, false
	}
	return games[index], true
}

const (
	promptUsername = "Enter your username."
	promptPassword = "Enter your password."
	promptEmail    = "Enter your email address."
)

func loginChain() Frame {
	return NewInputFrame(true, "user", promptUsername,
		NewInputFrame(false, "password", promptPassword,
			Terminal(func(s *Session, values map[string]string) {
				s.login(values["user"], values["password"])
			})))
}

func registerChain() Frame {
	return NewInputFrame(true, "user", promptUsername,
		NewInputFrame(false, "password", promptPassword,
			NewInputFrame(true, "email", promptEmail,
				Terminal(func(s *Session, values map[string]string) {
					s.register(values)
				}))))
}

func changePasswordChain() Frame {
	return NewInputFrame(false, "password", promptPassword,
		Terminal(func(s *Session, values map[string]string) {
			s.changePassword(values["password"])
		}))
}

func changeEmailChain() Frame {
	return NewInputFrame(true, "email", promptEmail,
		Terminal(func(s *Session, values map[string]string) {
			s.changeEmail(values["email"])
		}))
}
