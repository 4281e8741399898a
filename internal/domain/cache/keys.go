package cache

// Cache keys, relative to the namespace
const (
	KeyMusicCurrentTrack = "music_current_track"
	KeyMusicPlaybackTime = "music_playback_time"
	KeyMusicVolume       = "music_volume"
	KeyMusicPlayState    = "music_play_state"
	KeyMusicShuffle      = "music_shuffle"
	KeyMusicRepeat       = "music_repeat"

	KeyPaintCanvasData = "paint_canvas_data"
	KeyPaintColor      = "paint_color"
	KeyPaintBrushSize  = "paint_brush_size"
	KeyPaintTool       = "paint_tool"

	KeyKalimbaLastNotes = "kalimba_last_notes"
	KeyKalimbaSequences = "kalimba_sequences"

	KeyWindowsState = "windows_state"

	KeyNotesSelected       = "notes_selected"
	KeyNotesScrollPosition = "notes_scroll_position"
	KeyNotesSecretAnswer   = "notes_secret_answer"
	KeyNotesSecretShown    = "notes_secret_shown"

	KeyPrefsTheme = "prefs_theme"
)

// key groups for slice-wide wipes
const (
	musicKeys   = "music_*"
	paintKeys   = "paint_*"
	notesKeys   = "notes_*"
	kalimbaKeys = "kalimba_*"
)
