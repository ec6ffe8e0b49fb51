//go:build espeak

package tts

/*
#cgo LDFLAGS: -lespeak-ng
#include <stdlib.h>
#include <espeak-ng/speak_lib.h>

int
espeak_say(const char *text, const char *voice, int rate)
{
	if (!text)
	{ return -1; }

	if (espeak_Initialize(AUDIO_OUTPUT_SYNCH_PLAYBACK, 500, NULL, 0) < 0)
	{ return -2; }

	if (voice && *voice)
	{ espeak_SetVoiceByName(voice); }
	if (rate > 0)
	{ espeak_SetParameter(espeakRATE, rate, 0); }

	espeak_ERROR rc = espeak_Synth(text, 500, 0, 0, 0, espeakCHARS_AUTO, NULL, NULL);
	espeak_Synchronize();
	espeak_Terminate();

	return rc == EE_OK ? 0 : -3;
}
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// Espeak speaks through libespeak-ng, blocking until playback ends.
type Espeak struct {
	Voice string
	Rate  int
}

func NewEspeak(voice string, rate int) *Espeak {
	return &Espeak{Voice: voice, Rate: rate}
}

func (e *Espeak) Speak(text string) error {
	if text == "" {
		return nil
	}

	ctext := C.CString(text)
	defer C.free(unsafe.Pointer(ctext))
	cvoice := C.CString(e.Voice)
	defer C.free(unsafe.Pointer(cvoice))

	rc := C.espeak_say(ctext, cvoice, C.int(e.Rate))
	if rc != 0 {
		return fmt.Errorf("espeak_say failed: %d", int(rc))
	}

	return nil
}
