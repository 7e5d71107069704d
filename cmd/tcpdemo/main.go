// Command tcpdemo drives a client Endpoint and a server Endpoint against
// each other in-process, with no sockets and no wall clock: every tick is
// an explicit, host-driven step, the same loopback-harness shape
// soypat/lneto's examples/tcpclient uses for a real socket, minus the
// socket.
package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/schollz/progressbar/v3"

	"github.com/soypat/tcpcore/tcpendpoint"
	"github.com/soypat/tcpcore/tcpmetrics"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "tcpdemo:", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	client, err := tcpendpoint.NewEndpoint(tcpendpoint.Config{
		Capacity:         cfg.Capacity,
		ISN:              100,
		InitialRTOMillis: cfg.InitialRTOMillis,
		MaxPayloadSize:   cfg.MaxPayloadSize,
	})
	if err != nil {
		return err
	}
	server, err := tcpendpoint.NewEndpoint(tcpendpoint.Config{
		Capacity:         cfg.Capacity,
		ISN:              9000,
		InitialRTOMillis: cfg.InitialRTOMillis,
		MaxPayloadSize:   cfg.MaxPayloadSize,
	})
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	client.SetMetrics(tcpmetrics.NewRecorder(reg, prometheus.Labels{"session": client.ID.String(), "role": "client"}))
	server.SetMetrics(tcpmetrics.NewRecorder(reg, prometheus.Labels{"session": server.ID.String(), "role": "server"}))

	payload := []byte(cfg.PayloadText)
	if _, err := client.Outbound.Write(payload); err != nil {
		return fmt.Errorf("queue payload: %w", err)
	}
	client.Outbound.Close()

	bar := progressbar.Default(int64(len(payload)), "streaming payload")

	for tick := 0; tick < cfg.MaxTicks; tick++ {
		clientToServer := []tcpendpoint.SenderMessage{}
		client.Sender.Push(func(seg tcpendpoint.SenderMessage) {
			fmt.Println(segmentLine("client->server", seg))
			clientToServer = append(clientToServer, seg)
		})
		for _, seg := range clientToServer {
			server.Receiver.Receive(seg)
		}

		serverAck := server.Receiver.Send()
		fmt.Println(ackLine("server->client", serverAck))
		client.Sender.Receive(serverAck)

		serverToClient := []tcpendpoint.SenderMessage{}
		server.Sender.Push(func(seg tcpendpoint.SenderMessage) {
			fmt.Println(segmentLine("server->client", seg))
			serverToClient = append(serverToClient, seg)
		})
		for _, seg := range serverToClient {
			client.Receiver.Receive(seg)
		}

		clientAck := client.Receiver.Send()
		fmt.Println(ackLine("client->server", clientAck))
		server.Sender.Receive(clientAck)

		client.Sender.Tick(cfg.TickMillis, func(seg tcpendpoint.SenderMessage) {
			fmt.Println(segmentLine("client->server (retransmit)", seg))
			server.Receiver.Receive(seg)
		})
		server.Sender.Tick(cfg.TickMillis, func(seg tcpendpoint.SenderMessage) {
			fmt.Println(segmentLine("server->client (retransmit)", seg))
			client.Receiver.Receive(seg)
		})

		bar.Set(int(server.Inbound.BytesWritten()))

		if server.Inbound.Finished() && client.Sender.SequenceNumbersInFlight() == 0 {
			break
		}
	}

	bar.Finish()

	got := make([]byte, server.Inbound.Buffered())
	server.Inbound.Read(got)
	fmt.Printf("\nserver received %d bytes: %q\n", len(got), got)
	return nil
}
