package scenario

import (
	"github.com/vidtrack/vidtrack/player"
	lua "github.com/yuin/gopher-lua"
)

func getNumber(table *lua.LTable, key string) float64 {
	if n, ok := table.RawGetString(key).(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

func getString(table *lua.LTable, key string) string {
	if s, ok := table.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

func qualityFromTable(table *lua.LTable) player.Quality {
	return player.Quality{
		Width:   int(getNumber(table, "width")),
		Height:  int(getNumber(table, "height")),
		Bitrate: int(getNumber(table, "bitrate")),
		Level:   getString(table, "label"),
	}
}

// rangesFromTable reads a list of {start, end} pairs.
func rangesFromTable(table *lua.LTable) []player.TimeRange {
	var ranges []player.TimeRange
	table.ForEach(func(_, v lua.LValue) {
		pair, ok := v.(*lua.LTable)
		if !ok {
			return
		}
		start, _ := pair.RawGetInt(1).(lua.LNumber)
		end, _ := pair.RawGetInt(2).(lua.LNumber)
		ranges = append(ranges, player.TimeRange{Start: float64(start), End: float64(end)})
	})
	return ranges
}

// fromLua converts a Lua value into plain Go data. Tables with keys 1..n
// become slices, any other table becomes a map keyed by string.
func fromLua(v lua.LValue) any {
	switch value := v.(type) {
	case lua.LBool:
		return bool(value)
	case lua.LNumber:
		f := float64(value)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(value)
	case *lua.LTable:
		if n := value.Len(); n > 0 && n == countKeys(value) {
			list := make([]any, 0, n)
			for i := 1; i <= n; i++ {
				list = append(list, fromLua(value.RawGetInt(i)))
			}
			return list
		}
		return mapFromTable(value)
	default:
		return nil
	}
}

func mapFromTable(table *lua.LTable) map[string]any {
	m := make(map[string]any)
	table.ForEach(func(k, v lua.LValue) {
		m[k.String()] = fromLua(v)
	})
	return m
}

func countKeys(table *lua.LTable) int {
	n := 0
	table.ForEach(func(lua.LValue, lua.LValue) { n++ })
	return n
}

func snapshotToTable(L *lua.LState, a player.Adapter) *lua.LTable {
	table := L.NewTable()
	table.RawSetString("position", lua.LNumber(a.CurrentTime()))
	table.RawSetString("duration", lua.LNumber(a.Duration()))
	table.RawSetString("volume", lua.LNumber(a.Volume()))
	table.RawSetString("muted", lua.LBool(a.Muted()))
	table.RawSetString("paused", lua.LBool(a.Paused()))
	table.RawSetString("seeking", lua.LBool(a.Seeking()))
	table.RawSetString("buffering", lua.LBool(a.Buffering()))
	table.RawSetString("fullscreen", lua.LBool(a.Fullscreen()))
	table.RawSetString("src", lua.LString(a.VideoSrc()))
	return table
}
