package config

const (
	// MaxFolderNameLength is the maximum length for bookmark folder names.
	// Kept short for reasonable sidebar UX.
	MaxFolderNameLength = 100

	// MaxNuggetTitleLength is the maximum length for nugget titles.
	MaxNuggetTitleLength = 255

	// MaxNuggetURLLength is the maximum length for nugget URLs.
	MaxNuggetURLLength = 2048

	// MaxTranscriptLength caps the transcript text accepted by the summary
	// drafting endpoint. Longer transcripts blow past model context limits.
	MaxTranscriptLength = 200_000
)
