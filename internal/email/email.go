// Copyright (c) Woog.life
// SPDX-License-Identifier: Apache-2.0

// Package email provides a minimal SMTP agent used by the smtp
// notification channel.
package email

import (
	"bytes"
	"net/mail"
	"strconv"
	"text/template"

	"github.com/woog-life/temperature-scraper/pkg/errors"

	"gopkg.in/gomail.v2"
)

var (
	errParseTemplate = errors.New("parse e-mail template failed")
	errExecTemplate  = errors.New("execute e-mail template failed")
	errSendMail      = errors.New("sending e-mail failed")
)

type email struct {
	To      []string
	From    string
	Subject string
	Content string
}

// Config email agent configuration.
type Config struct {
	Host        string `toml:"host"`
	Port        string `toml:"port"`
	Username    string `toml:"username"`
	Password    string `toml:"password"`
	FromAddress string `toml:"from_address"`
	FromName    string `toml:"from_name"`
	Template    string `toml:"template"`
}

// Agent for mailing.
type Agent struct {
	conf *Config
	tmpl *template.Template
	dial *gomail.Dialer
}

// New creates new email agent. The template path is optional; without
// one the message content is sent as the plain body.
func New(c *Config) (*Agent, error) {
	a := &Agent{conf: c}
	port, err := strconv.Atoi(c.Port)
	if err != nil {
		return a, err
	}
	a.dial = gomail.NewDialer(c.Host, port, c.Username, c.Password)

	if c.Template != "" {
		tmpl, err := template.ParseFiles(c.Template)
		if err != nil {
			return a, errors.Wrap(errParseTemplate, err)
		}
		a.tmpl = tmpl
	}

	return a, nil
}

// Send sends e-mail.
func (a *Agent) Send(to []string, subject, content string) error {
	from := mail.Address{Name: a.conf.FromName, Address: a.conf.FromAddress}

	body := content
	if a.tmpl != nil {
		buff := new(bytes.Buffer)
		e := email{
			To:      to,
			From:    from.String(),
			Subject: subject,
			Content: content,
		}
		if err := a.tmpl.Execute(buff, e); err != nil {
			return errors.Wrap(errExecTemplate, err)
		}
		body = buff.String()
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from.String())
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := a.dial.DialAndSend(m); err != nil {
		return errors.Wrap(errSendMail, err)
	}

	return nil
}
