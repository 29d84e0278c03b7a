package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"

	"member-access-be/internal/dto"
	"member-access-be/internal/pkg/mailer"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// INotifyService pushes fire-and-forget admin alerts onto the in-process
// bus. Workflows call it after their ledger work is done, so a failure
// here never surfaces to the caller.
type INotifyService interface {
	NotifyAdmins(subject, message string, meta map[string]interface{})
}

type notifyService struct {
	pubSub    *gochannel.GoChannel
	topicName string
}

func NewNotifyService(pubSub *gochannel.GoChannel, topicName string) INotifyService {
	return &notifyService{
		pubSub:    pubSub,
		topicName: topicName,
	}
}

func (ns *notifyService) NotifyAdmins(subject, msgText string, meta map[string]interface{}) {
	payload, err := json.Marshal(dto.AdminAlertMessage{
		Subject: subject,
		Message: msgText,
		Meta:    meta,
	})
	if err != nil {
		log.Printf("[ERROR] Failed to marshal admin alert: %v", err)
		return
	}

	go func() {
		msg := message.NewMessage(watermill.NewUUID(), payload)
		if err := ns.pubSub.Publish(ns.topicName, msg); err != nil {
			log.Printf("[ERROR] Failed to publish admin alert: %v", err)
		}
	}()
}

// INotifyConsumerService drains the alert topic and mails the back office.
type INotifyConsumerService interface {
	Consume(ctx context.Context) error
}

type notifyConsumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	mailer     mailer.IEmailService
	adminEmail string
}

func NewNotifyConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	emailService mailer.IEmailService,
	adminEmail string,
) INotifyConsumerService {
	return &notifyConsumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		mailer:     emailService,
		adminEmail: adminEmail,
	}
}

func (cs *notifyConsumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *notifyConsumerService) processMessage(msg *message.Message) {
	var payload dto.AdminAlertMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal admin alert: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	if cs.adminEmail == "" {
		msg.Ack()
		return
	}

	body := fmt.Sprintf("<p>%s</p>%s", payload.Message, renderMeta(payload.Meta))
	if err := cs.mailer.SendAdminAlert(cs.adminEmail, payload.Subject, body); err != nil {
		log.Printf("[ERROR] Failed to mail admin alert %q: %v", payload.Subject, err)
		msg.Nack() // Retry transient SMTP failures
		return
	}

	msg.Ack()
}

func renderMeta(meta map[string]interface{}) string {
	if len(meta) == 0 {
		return ""
	}

	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := "<ul>"
	for _, k := range keys {
		out += fmt.Sprintf("<li><b>%s</b>: %v</li>", k, meta[k])
	}
	return out + "</ul>"
}
