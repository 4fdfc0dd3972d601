package agreement

// agreementTemplate fixes the section order. Every {{name}} must be filled
// by Compose.
const agreementTemplate = `# Services Agreement: {{sprint_title}}

## Overview

This Services Agreement (the "Agreement") is entered into as of {{effective_date}} between {{studio_name}} ("Studio") and {{client_name}} ("Client") for the project {{project_name}}.

Studio will deliver the sprint "{{sprint_title}}", comprising {{deliverable_count}} deliverable units with an estimated effort of {{total_hours}} hours, for a total fee of {{total_price}}.{{summary}}

## 1. Deliverables and Pricing

{{deliverables_table}}

## 2. Payment Terms

{{payment_terms}}
{{compensation_section}}
## 3. Intellectual Property and Licensing

Upon receipt of full payment of all amounts due under Section 2, Studio assigns to Client all right, title and interest in the final deliverables created specifically for Client under this Agreement. Studio retains ownership of its pre-existing tools, libraries, templates and know-how, and grants Client a perpetual, non-exclusive, royalty-free license to use any such materials incorporated into the deliverables. Studio may display the non-confidential work in its portfolio unless Client objects in writing.

## 4. Scope Changes

Work not described in Section 1 is out of scope. Either party may request a change in writing; Studio will respond with the effect on fee and schedule, priced at the catalog rate in effect at the time, and no change is binding until both parties confirm it in writing.

## 5. Termination

Either party may terminate this Agreement with 14 days' written notice. Client will pay for all work performed up to the termination date, pro-rated against the fee in Section 1, plus any non-refundable expenses already incurred. Sections 3 and 6 survive termination.

## 6. Miscellaneous

This Agreement is the entire agreement between the parties regarding its subject matter and supersedes all prior discussions. It is governed by the laws of {{jurisdiction}}. Neither party may assign this Agreement without the other's written consent. Notices may be sent by email to {{studio_email}} for Studio and to the address below for Client.

## Signatures

{{signature_block}}
`

const signatureTemplate = `**{{studio_name}}**

By: ______________________________
Name: {{studio_signatory}}
Title: {{studio_signatory_title}}
Date: ______________________________

**{{client_name}}**

By: ______________________________
Name: {{client_contact}}
Email: {{client_email}}
Date: ______________________________`
