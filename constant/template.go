package constant

// ScenarioTemplate scaffolds a new replay script. It is a text/template
// executed with the script name and the player kinds.
const ScenarioTemplate = `{{ $divider := repeat "-" (plus (len .Name) 12) }}{{ $divider }}
-- @name    {{ .Name }}
-- @players {{ join .Players ", " }}
{{ $divider }}

-- player.load(src, duration)        player.play()      player.pause()
-- player.advance(seconds)           player.seek(to)    player.buffer(seconds)
-- player.quality{width=, height=}   player.volume(v)   player.mute(on)
-- player.fullscreen(on)             player.error(code, message)
-- player.state()                    player.finish()
-- tracker.track(type, data)         tracker.update{debug=true}

player.load("https://example.com/video.mp4", 120)
player.quality{ width = 1280, height = 720, label = "720p" }

player.play()
player.advance(30)

player.seek(60)
player.buffer(2)
player.advance(30)

player.pause()

-- ex: ts=4 sw=4 et filetype=lua
`
