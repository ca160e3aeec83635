package shell

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
	luajson "layeh.com/gopher-json"

	"github.com/sb3ogun/naasii-game/errs"
)

func getShell(L *lua.LState) *ShellController {
	shell := L.GetGlobal("naasii_shell")
	ud, ok := shell.(*lua.LUserData)
	if !ok {
		panic("luserdata not right type")
	}
	sc, ok := ud.Value.(*ShellController)
	if !ok {
		panic("shellcontroller not right type")
	}
	return sc
}

// luaCommand wraps a shell command so a script can call it with the rest of
// the command line as its only argument.
func luaCommand(name string) lua.LGFunction {
	return func(L *lua.LState) int {
		lv := L.OptString(1, "")
		sc := getShell(L)
		cmd, err := extractFields(strings.TrimSpace(name + " " + lv))
		if err == nil {
			var r *Response
			r, err = sc.standardModeSwitch(cmd, nil)
			if err == nil {
				if r == nil {
					r = msg("")
				}
				L.Push(lua.LString(r.message))
				return 1
			}
		}
		log.Err(err).Str("cmd", name).Msg("error-executing-script-command")
		L.Push(lua.LString("ERROR: " + err.Error()))
		// return number of results pushed to stack.
		return 1
	}
}

// Exec runs any shell command line.
func Exec(L *lua.LState) int {
	return luaCommand("")(L)
}

type scriptState struct {
	Playing      bool     `json:"playing"`
	State        string   `json:"state"`
	Round        int      `json:"round"`
	MaxRounds    int      `json:"max_rounds"`
	OnTurn       string   `json:"on_turn"`
	RollsLeft    int      `json:"rolls_left"`
	Dice         []int    `json:"dice"`
	Kept         []int    `json:"kept"`
	Scores       []int    `json:"scores"`
	Names        []string `json:"names"`
	LastScore    int      `json:"last_score"`
	LastCategory string   `json:"last_category"`
}

// State returns the current game as a table, or nil when there is no game.
func State(L *lua.LState) int {
	sc := getShell(L)
	g := sc.game
	if g == nil {
		L.Push(lua.LNil)
		return 1
	}
	st := scriptState{
		State:     g.Playing().String(),
		Round:     g.Round(),
		MaxRounds: g.MaxRounds(),
		OnTurn:    g.NickOnTurn(),
		RollsLeft: g.RollsRemaining(),
		Dice:      g.DiceValues(),
		Kept:      oneBased(g.KeptIndices()),
		Names:     g.Names(),
	}
	st.Playing = st.State == "playing"
	for i := range st.Names {
		st.Scores = append(st.Scores, g.PointsFor(i))
	}
	if res, _ := g.LastResult(); res != nil {
		st.LastScore = res.Total
		st.LastCategory = res.Category
	}
	bts, err := json.Marshal(st)
	if err == nil {
		var lv lua.LValue
		if lv, err = luajson.Decode(L, bts); err == nil {
			L.Push(lv)
			return 1
		}
	}
	log.Err(err).Msg("error-encoding-state")
	L.Push(lua.LNil)
	return 1
}

func (sc *ShellController) script(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return nil, fmt.Errorf("%w: need arguments for script", errs.ErrInput)
	}

	filepath := cmd.args[0]

	L := lua.NewState()
	defer L.Close()
	luajson.Preload(L)

	lsc := L.NewUserData()
	lsc.Value = sc

	L.SetGlobal("naasii_shell", lsc)
	L.SetGlobal("naasii_exec", L.NewFunction(Exec))
	L.SetGlobal("naasii_state", L.NewFunction(State))
	for _, name := range []string{"new", "roll", "keep", "stop", "show", "save", "load", "set"} {
		L.SetGlobal("naasii_"+name, L.NewFunction(luaCommand(name)))
	}

	if err := L.DoFile(filepath); err != nil {
		log.Err(err).Msg("there was a error")
		return nil, fmt.Errorf("%w: script %s: %w", errs.ErrInput, filepath, err)
	}
	return nil, nil
}
