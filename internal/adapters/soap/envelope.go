package soap

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strings"
)

const (
	envelopeNS = "http://schemas.xmlsoap.org/soap/envelope/"
	serviceNS  = "urn:webservice"
)

type param struct {
	Name  string
	Value any
}

func buildEnvelope(operation string, params []param) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	fmt.Fprintf(&buf, `<soapenv:Envelope xmlns:soapenv=%q xmlns:ns=%q><soapenv:Body><ns:%s>`, envelopeNS, serviceNS, operation)
	for _, p := range params {
		fmt.Fprintf(&buf, "<%s>", p.Name)
		if err := xml.EscapeText(&buf, []byte(fmt.Sprint(p.Value))); err != nil {
			return nil, err
		}
		fmt.Fprintf(&buf, "</%s>", p.Name)
	}
	fmt.Fprintf(&buf, "</ns:%s></soapenv:Body></soapenv:Envelope>", operation)
	return buf.Bytes(), nil
}

type node struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Content string     `xml:",chardata"`
	Nodes   []node     `xml:",any"`
}

func (n node) find(local string) (node, bool) {
	if strings.EqualFold(n.XMLName.Local, local) {
		return n, true
	}
	for _, child := range n.Nodes {
		if found, ok := child.find(local); ok {
			return found, true
		}
	}
	return node{}, false
}

func (n node) text() string {
	return strings.TrimSpace(n.Content)
}

type fault struct {
	Code   string
	String string
}

// decodeResponse unwraps the envelope and returns the records carried by the
// response, accepting a "data" element, a bare "return" value, XML arrays of
// items, single records or a JSON document embedded as text.
func decodeResponse(raw []byte) ([]Record, error) {
	var env node
	if err := xml.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode soap envelope: %w", err)
	}
	body, ok := env.find("Body")
	if !ok {
		return nil, fmt.Errorf("soap envelope without body")
	}
	if f, ok := body.find("Fault"); ok {
		flt := fault{}
		if c, ok := f.find("faultcode"); ok {
			flt.Code = c.text()
		}
		if s, ok := f.find("faultstring"); ok {
			flt.String = s.text()
		}
		return nil, fmt.Errorf("soap fault %s: %s", flt.Code, flt.String)
	}

	payload, ok := body.find("data")
	if !ok {
		payload, ok = body.find("return")
	}
	if !ok {
		if len(body.Nodes) == 0 {
			return nil, nil
		}
		payload = body.Nodes[0]
		if len(payload.Nodes) == 1 {
			payload = payload.Nodes[0]
		}
	}
	return recordsFromNode(payload)
}

func recordsFromNode(n node) ([]Record, error) {
	if len(n.Nodes) == 0 {
		text := n.text()
		if strings.HasPrefix(text, "{") || strings.HasPrefix(text, "[") {
			return recordsFromJSON([]byte(text))
		}
		return nil, nil
	}
	if isArray(n) {
		records := make([]Record, 0, len(n.Nodes))
		for _, item := range n.Nodes {
			records = append(records, recordFromNode(item))
		}
		return records, nil
	}
	return []Record{recordFromNode(n)}, nil
}

// isArray treats a node as a list when its children repeat one element name
// or carry nested fields themselves.
func isArray(n node) bool {
	if len(n.Nodes) == 0 {
		return false
	}
	first := n.Nodes[0].XMLName.Local
	repeated := len(n.Nodes) > 1
	for _, child := range n.Nodes {
		if child.XMLName.Local != first {
			repeated = false
		}
		if len(child.Nodes) == 0 {
			return false
		}
	}
	return repeated || strings.EqualFold(first, "item")
}

func recordFromNode(n node) Record {
	rec := make(Record, len(n.Nodes))
	for _, field := range n.Nodes {
		if len(field.Nodes) > 0 {
			continue
		}
		rec[strings.ToLower(field.XMLName.Local)] = field.text()
	}
	return rec
}

func recordsFromJSON(raw []byte) ([]Record, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode embedded json: %w", err)
	}
	if obj, ok := doc.(map[string]any); ok {
		if data, ok := obj["data"]; ok {
			doc = data
		}
	}
	switch v := doc.(type) {
	case []any:
		records := make([]Record, 0, len(v))
		for _, item := range v {
			if obj, ok := item.(map[string]any); ok {
				records = append(records, recordFromMap(obj))
			}
		}
		return records, nil
	case map[string]any:
		return []Record{recordFromMap(v)}, nil
	}
	return nil, nil
}

func recordFromMap(obj map[string]any) Record {
	rec := make(Record, len(obj))
	for k, v := range obj {
		if v == nil {
			continue
		}
		switch v.(type) {
		case map[string]any, []any:
			continue
		}
		rec[strings.ToLower(k)] = fmt.Sprint(v)
	}
	return rec
}
