package soap

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"inventory-sync/internal/config"
	"inventory-sync/internal/domain/model"
	"inventory-sync/internal/logging"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const arrayResponse = `<?xml version="1.0" encoding="UTF-8"?>
<SOAP-ENV:Envelope xmlns:SOAP-ENV="http://schemas.xmlsoap.org/soap/envelope/">
<SOAP-ENV:Body>
<ns1:wsp_request_bodega_all_itemsResponse xmlns:ns1="urn:webservice">
<return>
  <status>ok</status>
  <data>
    <item><codigo>A1</codigo><descripcion>Drill</descripcion><precio>10.50</precio><stock>5</stock><familia>Tools</familia><image_url>https://cdn.example/a1.jpg</image_url><privacidad>0</privacidad></item>
    <item><codigo>B2</codigo><descripcion>Saw</descripcion><precio></precio><stock>-3</stock><privacidad>1</privacidad></item>
  </data>
</return>
</ns1:wsp_request_bodega_all_itemsResponse>
</SOAP-ENV:Body>
</SOAP-ENV:Envelope>`

const jsonResponse = `<?xml version="1.0"?>
<SOAP-ENV:Envelope xmlns:SOAP-ENV="http://schemas.xmlsoap.org/soap/envelope/">
<SOAP-ENV:Body><ns1:wsc_request_bodega_all_itemsResponse xmlns:ns1="urn:webservice">
<return>{"status":"ok","data":[{"codigo":"X","precio":"9.99"},{"codigo":"Y","precio":4}]}</return>
</ns1:wsc_request_bodega_all_itemsResponse></SOAP-ENV:Body></SOAP-ENV:Envelope>`

const singleResponse = `<?xml version="1.0"?>
<SOAP-ENV:Envelope xmlns:SOAP-ENV="http://schemas.xmlsoap.org/soap/envelope/">
<SOAP-ENV:Body><resp><data><codigo>Z9</codigo><stock>2</stock></data></resp></SOAP-ENV:Body></SOAP-ENV:Envelope>`

const faultResponse = `<?xml version="1.0"?>
<SOAP-ENV:Envelope xmlns:SOAP-ENV="http://schemas.xmlsoap.org/soap/envelope/">
<SOAP-ENV:Body><SOAP-ENV:Fault><faultcode>SOAP-ENV:Client</faultcode><faultstring>bad password</faultstring></SOAP-ENV:Fault></SOAP-ENV:Body></SOAP-ENV:Envelope>`

func soapServer(t *testing.T, status int, response string, check func(body string, r *http.Request)) config.SoapConfig {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		if check != nil {
			check(string(raw), r)
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return config.SoapConfig{Client: "bodega", SiretUrl: srv.URL, Pid: 12, Cid: 34, Password: "p&w", Bid: 2}
}

func TestFetchAll_ArrayOfItems(t *testing.T) {
	creds := soapServer(t, http.StatusOK, arrayResponse, func(body string, r *http.Request) {
		assert.Equal(t, "/webservice.php", r.URL.Path)
		assert.Contains(t, r.Header.Get("SOAPAction"), opAllItems)
		assert.Contains(t, body, "<ws_pid>12</ws_pid>")
		assert.Contains(t, body, "<ws_passwd>p&amp;w</ws_passwd>")
		assert.Contains(t, body, "<bid>2</bid>")
	})

	records, err := NewClient(nil, logging.Discard()).FetchAll(context.Background(), creds)
	require.NoError(t, err)
	require.Len(t, records, 2)

	a := records[0].Product()
	assert.Equal(t, "A1", a.Sku)
	assert.Equal(t, "Drill", a.Name)
	assert.True(t, a.Price.Equal(decimal.RequireFromString("10.5")))
	assert.Equal(t, 5, a.Stock)
	assert.Equal(t, []string{"Tools"}, a.CategoryPath)
	assert.Equal(t, "a1.jpg", a.ImageName)
	assert.Equal(t, model.StatusPublished, a.Status)

	b := records[1].Product()
	assert.True(t, b.Price.IsZero())
	assert.Equal(t, 0, b.Stock)
	assert.Nil(t, b.CategoryPath)
	assert.Empty(t, b.ImageName)
	assert.Equal(t, model.StatusHidden, b.Status)
}

func TestFetchTierPrices_EmbeddedJSON(t *testing.T) {
	creds := soapServer(t, http.StatusOK, jsonResponse, func(body string, r *http.Request) {
		assert.Contains(t, body, "<ws_cid>34</ws_cid>")
		assert.Contains(t, r.Header.Get("SOAPAction"), opClientAllItems)
	})

	items, err := NewClient(nil, nil).FetchTierPrices(context.Background(), creds)
	require.NoError(t, err)
	assert.Equal(t, []model.TierItem{{Sku: "X", Price: "9.99"}, {Sku: "Y", Price: "4"}}, items)
}

func TestFetchAll_SingleRecord(t *testing.T) {
	creds := soapServer(t, http.StatusOK, singleResponse, nil)

	records, err := NewClient(nil, nil).FetchAll(context.Background(), creds)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Z9", records[0].Get("CODIGO"))
}

func TestFetchAll_Fault(t *testing.T) {
	creds := soapServer(t, http.StatusInternalServerError, faultResponse, nil)

	_, err := NewClient(nil, nil).FetchAll(context.Background(), creds)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrRemoteUnavailable)
	assert.Contains(t, err.Error(), "bad password")
}

func TestFetchAll_HTTPError(t *testing.T) {
	creds := soapServer(t, http.StatusBadGateway, "upstream down", nil)

	_, err := NewClient(nil, nil).FetchAll(context.Background(), creds)
	assert.ErrorIs(t, err, model.ErrRemoteUnavailable)
}

func TestEndpointFor(t *testing.T) {
	got, err := endpointFor("ws.example.cl")
	require.NoError(t, err)
	assert.Equal(t, "https://ws.example.cl:443/webservice.php", got)

	_, err = endpointFor(" ")
	assert.Error(t, err)
}

func TestParseStockAcceptsDecimals(t *testing.T) {
	assert.Equal(t, 3, parseStock("3,00"))
	assert.Equal(t, 0, parseStock("n/a"))
}
