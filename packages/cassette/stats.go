package cassette

// Stats holds information about a cassette's use since it was inserted.
type Stats struct {
	// TotalTracks is the number of interactions currently on the cassette.
	TotalTracks int32

	// TracksLoaded is the number of interactions read from storage.
	TracksLoaded int32

	// TracksRecorded is the number of interactions recorded since insertion.
	TracksRecorded int32

	// TracksPlayed is the number of responses served from the cassette.
	TracksPlayed int32
}
