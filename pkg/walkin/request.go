// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package walkin

import (
	"strconv"
	"strings"

	"github.com/Thermoquad/frigostat/pkg/sck"
)

// request is a classified inbound line: a decoded SCK command frame, or the
// raw text when no valid frame marker was present. The response is rendered
// back in the same form the request arrived in.
type request struct {
	frame *sck.Frame
	text  string
}

func (r request) framed() bool { return r.frame != nil }

// response is a dispatch outcome before rendering: the reply body shared by
// both wire forms.
type response struct {
	text string
}

// loopbackPrefixes open every reply this controller emits. A text line
// starting with one of them is an echo of our own prior output.
var loopbackPrefixes = []string{"ACK ", "ERR ", "STATUS ", "CONFIG ", "IO "}

// classify sorts an inbound line into a dispatchable request. ok is false
// for loopback echoes and status frames, which are discarded without reply.
// Marked lines that fail frame decoding fall through as plain text; decode
// errors are never reported to the peer.
func classify(line string) (request, bool) {
	frame, marked, err := sck.ParseLine(line)
	if marked && err == nil {
		if frame.IsStatus() {
			return request{}, false
		}
		return request{frame: frame}, true
	}

	for _, prefix := range loopbackPrefixes {
		if strings.HasPrefix(line, prefix) {
			return request{}, false
		}
	}
	return request{text: line}, true
}

// render produces the wire line answering req. Plain text requests get the
// body verbatim; framed requests get a status frame echoing the request's
// version, transaction id, and command code, carried as an SCK hex line.
// Reply payloads that exceed the frame payload limit are truncated.
func render(req request, resp response) string {
	if !req.framed() {
		return resp.text
	}
	text := resp.text
	if len(text) > sck.MaxPayloadSize {
		text = text[:sck.MaxPayloadSize]
	}
	return sck.FormatLine(sck.MustEncodeFrame(sck.NewStatusReply(req.frame, text)))
}

// frameDetail names an unrecognized frame in an ERR reply: its payload text
// when it has one, otherwise its command code in decimal.
func frameDetail(f *sck.Frame) string {
	if text := f.PayloadText(); text != "" {
		return text
	}
	return strconv.Itoa(int(f.Command()))
}
