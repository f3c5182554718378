package flows

import (
	"context"
	"fmt"

	"github.com/rpl-hospital/carebot-backend/internal/services"
)

// BillFlow points the patient at the billing counter. Billing records live in
// the hospital's accounting system, not here, so this is informational only.
type BillFlow struct {
	deps Deps
}

func NewBillFlow(deps Deps) *BillFlow {
	return &BillFlow{deps: deps}
}

func (f *BillFlow) Handle(_ context.Context, _ string, sess *services.Session) Result {
	next := services.NewDefaultSession(sess.Phone)
	next.Name = sess.Name

	cfg := f.deps.Config
	return Result{
		Reply: Text(fmt.Sprintf(`💰 *बिल की जानकारी*

बिल और भुगतान के लिए अस्पताल के बिलिंग काउंटर पर संपर्क करें।

🏥 %s
📍 %s
📞 %s

⏰ बिलिंग काउंटर: सुबह 9 बजे से शाम 6 बजे तक

भुगतान के तरीके: नकद, UPI, कार्ड

'menu' भेजकर मुख्य मेन्यू पर जाएं। 🙏`, cfg.HospitalName, cfg.HospitalAddress, cfg.HospitalPhone)),
		NewState: next,
	}
}
