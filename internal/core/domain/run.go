package domain

import "time"

// PipelineStats summarises one pipeline run over a document.
type PipelineStats struct {
	ProgramsProcessed     int
	TechnologyPrograms    int
	UndergraduatePrograms int
	RejectedPrograms      int
	FailedPrograms        int
	ChunksCreated         int
	SemesterChunks        int
	LLMChunks             int
	StructuralChunks      int
	ProcessingTime        time.Duration
}

// IngestRun records one completed ingestion.
type IngestRun struct {
	ID        string
	Source    string
	Mode      ChunkingMode
	Stats     PipelineStats
	Skipped   bool
	StartedAt time.Time
	Duration  time.Duration
}
