package main

import (
	"fmt"

	"github.com/charmbracelet/x/ansi"
	"github.com/soypat/tcpcore/tcpendpoint"
)

// Color codes for segment tracing, chosen for the same kind of at-a-glance
// flag distinction soypat/lneto/tcp.StringExchange diagrams give in plain
// text: SYN/FIN/RST stand out, ordinary data segments stay dim.
const (
	colorSYN  = 2 // green
	colorFIN  = 5 // magenta
	colorRST  = 1 // red
	colorData = 7 // default/white
)

func styled(color int, text string) string {
	return ansi.Style{}.ForegroundColor(ansi.ExtendedColor(color)).Styled(text)
}

// segmentLine renders one outbound segment the way a terminal-attached
// operator would want to see it: direction arrow, flags, sequence number,
// payload length.
func segmentLine(direction string, seg tcpendpoint.SenderMessage) string {
	flags := ""
	color := colorData
	switch {
	case seg.RST:
		flags, color = "RST", colorRST
	case seg.SYN && seg.FIN:
		flags, color = "SYN,FIN", colorSYN
	case seg.SYN:
		flags, color = "SYN", colorSYN
	case seg.FIN:
		flags, color = "FIN", colorFIN
	}
	label := flags
	if label == "" {
		label = "DATA"
	}
	return fmt.Sprintf("%s %s seq=%s len=%d", direction, styled(color, label), seg.Seqno, len(seg.Payload))
}

// ackLine renders one outbound acknowledgement.
func ackLine(direction string, ack tcpendpoint.ReceiverMessage) string {
	ackno := "-"
	if ack.HasAck {
		ackno = ack.Ackno.String()
	}
	label := "ACK"
	color := colorData
	if ack.RST {
		label, color = "RST", colorRST
	}
	return fmt.Sprintf("%s %s ack=%s win=%d", direction, styled(color, label), ackno, ack.Window)
}
