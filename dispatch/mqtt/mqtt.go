/* Copyright 2026 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package mqtt publishes workflow requests to an MQTT broker.
package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Comcast/parley/dispatch"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

// WorkflowPlaceholder in a topic is replaced by the Request's
// workflow.
const WorkflowPlaceholder = "{workflow}"

// Config is what's needed to make a client.
type Config struct {
	Broker    string        `mapstructure:"broker"`
	ClientId  string        `mapstructure:"client_id"`
	Username  string        `mapstructure:"username"`
	Password  string        `mapstructure:"password"`
	KeepAlive time.Duration `mapstructure:"keep_alive"`
	Reconnect bool          `mapstructure:"reconnect"`

	// Topic may have the form TOPIC:QOS.
	Topic string `mapstructure:"topic"`
}

// NewClient makes (but doesn't connect) a client.
func NewClient(cfg *Config, logger *zap.Logger) mqtt.Client {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientId)
	if 0 < cfg.KeepAlive {
		opts.SetKeepAlive(cfg.KeepAlive)
	}
	opts.Username = cfg.Username
	opts.Password = cfg.Password
	opts.AutoReconnect = cfg.Reconnect
	opts.CleanSession = true
	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		logger.Warn("mqtt connection lost", zap.Error(err))
	}
	return mqtt.NewClient(opts)
}

// Publisher is a dispatch.Dispatcher that publishes each Request as
// JSON.
type Publisher struct {
	Client mqtt.Client

	// Topic is the topic for Requests.  WorkflowPlaceholder is
	// replaced by the workflow.
	Topic string

	QoS     byte
	Retain  bool
	Timeout time.Duration

	// Quiesce is how long Close waits for work to finish.
	Quiesce time.Duration

	Logger *zap.Logger
}

// NewPublisher makes a Publisher.  The topic can have the form
// TOPIC:QOS.
func NewPublisher(client mqtt.Client, topic string, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	topic, qos := ParseTopic(topic)
	return &Publisher{
		Client:  client,
		Topic:   topic,
		QoS:     qos,
		Timeout: 10 * time.Second,
		Quiesce: 250 * time.Millisecond,
		Logger:  logger,
	}
}

func (p *Publisher) wait(ctx context.Context, what string, t mqtt.Token) error {
	timeout := p.Timeout
	if dl, have := ctx.Deadline(); have {
		if d := time.Until(dl); d < timeout {
			timeout = d
		}
	}
	if !t.WaitTimeout(timeout) {
		return fmt.Errorf("mqtt %s timed out after %s", what, timeout)
	}
	if err := t.Error(); err != nil {
		return fmt.Errorf("mqtt %s: %w", what, err)
	}
	return nil
}

// Connect connects the client if it isn't already connected.
func (p *Publisher) Connect(ctx context.Context) error {
	if p.Client.IsConnected() {
		return nil
	}
	p.Logger.Info("connecting to broker")
	return p.wait(ctx, "connect", p.Client.Connect())
}

// TopicFor returns the topic for the given Request.
func (p *Publisher) TopicFor(r *dispatch.Request) string {
	return strings.ReplaceAll(p.Topic, WorkflowPlaceholder, r.Workflow)
}

func (p *Publisher) Dispatch(ctx context.Context, r *dispatch.Request) error {
	js, err := json.Marshal(r)
	if err != nil {
		return err
	}
	topic := p.TopicFor(r)
	if err := p.wait(ctx, "publish", p.Client.Publish(topic, p.QoS, p.Retain, js)); err != nil {
		return err
	}
	p.Logger.Debug("published",
		zap.String("topic", topic),
		zap.String("id", r.Id),
		zap.String("workflow", r.Workflow))
	return nil
}

// Close disconnects.
func (p *Publisher) Close() error {
	p.Client.Disconnect(uint(p.Quiesce / time.Millisecond))
	return nil
}

// ParseTopic extracts the QoS from a topic of the form TOPIC:QOS.
// Without a valid QoS suffix, the whole string is the topic and the
// QoS is zero.
func ParseTopic(s string) (string, byte) {
	i := strings.LastIndex(s, ":")
	if i < 0 {
		return s, 0
	}
	n, err := strconv.Atoi(s[i+1:])
	if err != nil || n < 0 || 2 < n {
		return s, 0
	}
	return s[:i], byte(n)
}
