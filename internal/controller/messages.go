package controller

import "fmt"

// Status messages written by the controller.
const (
	MsgValidation = "Error: Please select a video file and provide a YouTube Key."
	MsgUploading  = "Step 1/2: Uploading video file..."
)

func msgStarting(fileName string) string {
	return fmt.Sprintf("Step 2/2: Starting stream for %s...", fileName)
}

func msgStarted(streamID string) string {
	return fmt.Sprintf("Success! Stream started with ID: %s", streamID)
}

func msgFailed(err error) string {
	return "Error: " + err.Error()
}

func msgStopping(streamID string) string {
	return fmt.Sprintf("Stopping stream %s...", streamID)
}

func msgStopped(streamID string) string {
	return fmt.Sprintf("Stream %s stopped.", streamID)
}

func msgStopFailed(err error) string {
	return "Error stopping stream: " + err.Error()
}
