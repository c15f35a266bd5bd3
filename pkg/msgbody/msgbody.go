// Package msgbody renders and extracts message bodies the way the mock
// binding configured by the transport adapter does on the wire.
//
// Outbound wraps a payload with WCF.OutboundXmlTemplate, so a mock endpoint
// receives
//
//	<bts-msg-body xmlns="http://www.microsoft.com/schemas/bts2007" encoding="base64">PE9yZGVyLz4=</bts-msg-body>
//
// Inbound reads a mock endpoint reply using WCF.InboundBodyPathExpression and
// WCF.InboundNodeEncoding. Compose builds such a reply.
package msgbody

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/getmockd/transmock/pkg/message"
	"github.com/getmockd/transmock/pkg/transport"
)

// Body handling errors.
var (
	ErrInvalidXML          = errors.New("invalid XML document")
	ErrNoBodyPlaceholder   = errors.New("template has no bts-msg-body element")
	ErrBodyNotFound        = errors.New("body path matched no element")
	ErrUnsupportedEncoding = errors.New("unsupported body encoding")
	ErrUnsupportedLocation = errors.New("unsupported body location")
)

// Body locations.
const (
	LocationUseTemplate    = "UseTemplate"
	LocationUseBodyElement = "UseBodyElement"
	LocationUseBodyPath    = "UseBodyPath"
)

// Node encodings, matched case-insensitively.
const (
	EncodingBase64 = "Base64"
	EncodingString = "String"
	EncodingXML    = "Xml"
	EncodingHex    = "Hex"
)

// ContentElement is the root element of a mock endpoint reply.
const ContentElement = "MessageContent"

const placeholderTag = "bts-msg-body"

// RenderTemplate substitutes payload into the bts-msg-body element of
// template, encoded as the element's encoding attribute says.
func RenderTemplate(template string, payload []byte) ([]byte, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(template); err != nil {
		return nil, fmt.Errorf("%w: template: %w", ErrInvalidXML, err)
	}

	placeholder := doc.FindElement("//" + placeholderTag)
	if placeholder == nil {
		return nil, ErrNoBodyPlaceholder
	}

	encoding := placeholder.SelectAttrValue("encoding", EncodingXML)
	switch strings.ToLower(encoding) {
	case "base64":
		placeholder.SetText(base64.StdEncoding.EncodeToString(payload))
	case "string":
		placeholder.SetText(string(payload))
	case "hex":
		placeholder.SetText(hex.EncodeToString(payload))
	case "xml":
		inner := etree.NewDocument()
		if err := inner.ReadFromBytes(payload); err != nil {
			return nil, fmt.Errorf("%w: payload: %w", ErrInvalidXML, err)
		}
		if root := inner.Root(); root != nil {
			placeholder.AddChild(root.Copy())
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, encoding)
	}

	return doc.WriteToBytes()
}

// Extract returns the content of the element at path, decoded with encoding.
// path uses etree path syntax; "/MessageContent" selects the document root.
func Extract(document []byte, path, encoding string) ([]byte, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(document); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidXML, err)
	}

	elem := doc.FindElement(path)
	if elem == nil {
		return nil, fmt.Errorf("%w: %s", ErrBodyNotFound, path)
	}

	switch strings.ToLower(encoding) {
	case "base64":
		data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(elem.Text()))
		if err != nil {
			return nil, fmt.Errorf("decoding base64 body: %w", err)
		}
		return data, nil
	case "hex":
		data, err := hex.DecodeString(strings.TrimSpace(elem.Text()))
		if err != nil {
			return nil, fmt.Errorf("decoding hex body: %w", err)
		}
		return data, nil
	case "string":
		return []byte(elem.Text()), nil
	case "xml", "":
		children := elem.ChildElements()
		if len(children) == 0 {
			return nil, nil
		}
		out := etree.NewDocument()
		out.SetRoot(children[0].Copy())
		return out.WriteToBytes()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, encoding)
	}
}

// Compose builds the reply document a mock endpoint returns for payload:
// <MessageContent>base64</MessageContent>.
func Compose(payload []byte) []byte {
	doc := etree.NewDocument()
	root := doc.CreateElement(ContentElement)
	root.SetText(base64.StdEncoding.EncodeToString(payload))
	data, _ := doc.WriteToBytes()
	return data
}

// Outbound renders payload as the transport configured on bag would send it.
func Outbound(bag message.PropertyBag, payload []byte) ([]byte, error) {
	location, err := readString(bag, transport.PropOutboundBodyLocation)
	if err != nil {
		return nil, err
	}

	switch location {
	case LocationUseTemplate:
		template, err := readString(bag, transport.PropOutboundXMLTemplate)
		if err != nil {
			return nil, err
		}
		return RenderTemplate(template, payload)
	case LocationUseBodyElement, "":
		return payload, nil
	default:
		return nil, fmt.Errorf("%w: outbound %q", ErrUnsupportedLocation, location)
	}
}

// Inbound extracts the reply payload from document as the transport
// configured on bag would.
func Inbound(bag message.PropertyBag, document []byte) ([]byte, error) {
	location, err := readString(bag, transport.PropInboundBodyLocation)
	if err != nil {
		return nil, err
	}

	switch location {
	case LocationUseBodyPath:
		path, err := readString(bag, transport.PropInboundBodyPathExpression)
		if err != nil {
			return nil, err
		}
		encoding, err := readString(bag, transport.PropInboundNodeEncoding)
		if err != nil {
			return nil, err
		}
		return Extract(document, path, encoding)
	case LocationUseBodyElement, "":
		return document, nil
	default:
		return nil, fmt.Errorf("%w: inbound %q", ErrUnsupportedLocation, location)
	}
}

func readString(bag message.PropertyBag, name string) (string, error) {
	v, ok, err := bag.Read(name)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", name, err)
	}
	if !ok {
		return "", nil
	}
	return v.Str(), nil
}
